package ecs

import "sort"

// RegistryStats summarizes the registry contents for debug panels and reports.
type RegistryStats struct {
	EntityCount    int
	RemovedCount   int
	ScriptCount    int
	RoleCounts     map[Role]int
	TagCounts      map[string]int
	SignatureCount map[Signature]int
}

// Stats collects counts over the live entities.
func (r *Registry) Stats() RegistryStats {
	stats := RegistryStats{
		RemovedCount:   len(r.entities) - r.live,
		RoleCounts:     make(map[Role]int),
		TagCounts:      make(map[string]int),
		SignatureCount: make(map[Signature]int),
	}
	for e := range r.All() {
		stats.EntityCount++
		for role := range e.Components() {
			stats.RoleCounts[role]++
		}
		for _, tag := range e.tags {
			stats.TagCounts[tag]++
		}
		stats.SignatureCount[e.signature]++
	}
	stats.ScriptCount = stats.RoleCounts[RoleScript]
	return stats
}

// SortedTags returns the tag names in lexical order.
func (s RegistryStats) SortedTags() []string {
	tags := make([]string, 0, len(s.TagCounts))
	for tag := range s.TagCounts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
