package culture

// Categories is the fixed set a record's category may take. The empty
// category is always allowed.
var Categories = []string{"菌株", "培地", "培養", "PCR", "観察", "その他"}

func ValidCategory(c string) bool {
	if len(c) == 0 {
		return true
	}
	for _, opt := range Categories {
		if c == opt {
			return true
		}
	}
	return false
}
