package utils

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

func KeyExists(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}
