package lifecycle

import (
	"fmt"
	"sort"
)

// DispositionMap maps uppercase call outcome tags ("SALE", "CALLBACK", ...)
// to the contact status they drive. Tags are matched exactly; an unmapped
// tag is a valid disposition with no status effect. The map is versioned so
// transition snapshots can say which ruleset produced them.
type DispositionMap struct {
	version int
	rules   map[string]Status
}

// NewDispositionMap validates every target before accepting the ruleset.
// "Exclusive Lock" may not be a target: lock acquisition always goes
// through Claim or an explicit status change so the owner is known.
func NewDispositionMap(version int, rules map[string]Status) (DispositionMap, error) {
	for tag, target := range rules {
		if !target.Valid() {
			return DispositionMap{}, fmt.Errorf("disposition %q: %w: %q", tag, ErrInvalidStatus, target)
		}
		if target == StatusExclusiveLock {
			return DispositionMap{}, fmt.Errorf("disposition %q may not target %q", tag, StatusExclusiveLock)
		}
	}
	cp := make(map[string]Status, len(rules))
	for tag, target := range rules {
		cp[tag] = target
	}
	return DispositionMap{version: version, rules: cp}, nil
}

func (m DispositionMap) Version() int {
	return m.version
}

// Resolve returns the target status for tag and whether tag is mapped.
func (m DispositionMap) Resolve(tag string) (Status, bool) {
	target, ok := m.rules[tag]
	return target, ok
}

// Tags returns the mapped tags in sorted order.
func (m DispositionMap) Tags() []string {
	tags := make([]string, 0, len(m.rules))
	for tag := range m.rules {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DefaultDispositions is version 1 of the built-in ruleset.
var DefaultDispositions = mustDispositions(1, map[string]Status{
	"SALE":               StatusClosed,
	"NOT INTERESTED":     StatusClosed,
	"CALLBACK":           StatusFollowUp,
	"FOLLOW UP REQUIRED": StatusFollowUp,
	"INTERESTED":         StatusFollowUp,
	"APPOINTMENT SET":    StatusFollowUp,
	"ANSWERING MACHINE":  StatusUnreachable,
	"BUSY":               StatusUnreachable,
	"UNREACHABLE":        StatusUnreachable,
	"WRONG NUMBER":       StatusUnreachable,
	"DNC":                StatusDoNotContact,
})

func mustDispositions(version int, rules map[string]Status) DispositionMap {
	m, err := NewDispositionMap(version, rules)
	if err != nil {
		panic(err)
	}
	return m
}
