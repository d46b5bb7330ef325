package health

// TagSet is a set of tags. A nil or empty TagSet means "no filter".
type TagSet map[string]struct{}

// NewTagSet builds a TagSet, returning nil when no non-empty tag is given.
func NewTagSet(tags ...string) TagSet {
	var set TagSet
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if set == nil {
			set = make(TagSet, len(tags))
		}
		set[tag] = struct{}{}
	}
	return set
}

func (s TagSet) intersects(tags []string) bool {
	for _, tag := range tags {
		if _, ok := s[tag]; ok {
			return true
		}
	}
	return false
}

// Filter selects checks by tag. Empty slices mean no filter.
type Filter struct {
	// Include, when set, runs only checks carrying at least one of these tags.
	Include []string

	// Exclude, when set, skips checks carrying any of these tags. Exclusion
	// wins over inclusion.
	Exclude []string
}

func (f Filter) sets() (include, exclude TagSet) {
	return NewTagSet(f.Include...), NewTagSet(f.Exclude...)
}

// Matches reports whether a check carrying tags would run under f.
func (f Filter) Matches(tags []string) bool {
	include, exclude := f.sets()
	return ShouldRun(tags, include, exclude)
}

// ShouldRun decides whether a check carrying tags runs:
//
//  1. an untagged check runs only when neither filter is present;
//  2. a check carrying any excluded tag does not run;
//  3. with an include filter, a check runs only if it carries an included tag;
//  4. otherwise it runs.
func ShouldRun(tags []string, include, exclude TagSet) bool {
	if len(tags) == 0 {
		return len(include) == 0 && len(exclude) == 0
	}
	if len(exclude) > 0 && exclude.intersects(tags) {
		return false
	}
	if len(include) > 0 {
		return include.intersects(tags)
	}
	return true
}
