package lumin

// storageKeys are the six per-install keys the tracker owns in the host
// store. Derived once from the app ID so two apps sharing one store never
// collide.
type storageKeys struct {
	firstOpen        string
	endOfLastSession string
	lastDAU          string
	lastWAU          string
	lastMAU          string
	lastYAU          string
}

func deriveStorageKeys(appID string) storageKeys {
	prefix := "lumin_" + appID + "_"
	return storageKeys{
		firstOpen:        prefix + "first_open_time",
		endOfLastSession: prefix + "end_of_last_session",
		lastDAU:          prefix + "last_dau_tracked",
		lastWAU:          prefix + "last_wau_tracked",
		lastMAU:          prefix + "last_mau_tracked",
		lastYAU:          prefix + "last_yau_tracked",
	}
}

func (k storageKeys) all() []string {
	return []string{k.firstOpen, k.endOfLastSession, k.lastDAU, k.lastWAU, k.lastMAU, k.lastYAU}
}
