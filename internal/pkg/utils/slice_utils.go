package utils

// DedupeStrings returns items with duplicates removed, preserving the first
// occurrence's position.
func DedupeStrings(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ContainsString reports whether items holds the exact value.
func ContainsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

// AppendMissing appends every entry of extra that base does not already hold,
// keeping base's order intact.
func AppendMissing(base []string, extra []string) []string {
	for _, item := range extra {
		if !ContainsString(base, item) {
			base = append(base, item)
		}
	}
	return base
}
