package testdata

// @kosu step `^never collected$`
func NeverCollected() {}
