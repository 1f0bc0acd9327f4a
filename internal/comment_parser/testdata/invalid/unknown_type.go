package invalid

// @kosu step `^I pick {fruit}$`
func Pick(fruit string) {}
