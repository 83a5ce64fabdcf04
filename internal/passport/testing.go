package passport

// SeedCompletions is a test helper that overwrites the completion list
// of a passport held in the in-memory directory.
func SeedCompletions(d Directory, code string, completions []Completion) {
	if mem, ok := d.(*memoryDirectory); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		p, exists := mem.passports[code]
		if !exists {
			return
		}
		p.Completions = make([]Completion, len(completions))
		copy(p.Completions, completions)
		mem.passports[code] = p
	}
}
