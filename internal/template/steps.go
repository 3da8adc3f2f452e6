package template

// Step identifies one of the seven builder steps, in order.
type Step int

const (
	StepTitle Step = iota
	StepSubtitle
	StepBody
	StepNote
	StepConclusion
	StepHashtags
	StepLinks
)

// StepCount is the number of builder steps.
const StepCount = int(StepLinks) + 1

var stepFields = [StepCount]func(*Fields) *string{
	StepTitle:      func(f *Fields) *string { return &f.Title },
	StepSubtitle:   func(f *Fields) *string { return &f.Subtitle },
	StepBody:       func(f *Fields) *string { return &f.Body },
	StepNote:       func(f *Fields) *string { return &f.Note },
	StepConclusion: func(f *Fields) *string { return &f.Conclusion },
	StepHashtags:   func(f *Fields) *string { return &f.Hashtags },
	StepLinks:      func(f *Fields) *string { return &f.Links },
}

func (s Step) Valid() bool {
	return s >= StepTitle && s <= StepLinks
}

// Last reports whether s finalizes the template.
func (s Step) Last() bool {
	return s == StepLinks
}

// Set stores value in the field that s fills. Skipped steps store "".
func (f *Fields) Set(s Step, value string) {
	if !s.Valid() {
		return
	}
	*stepFields[s](f) = value
}

// Get returns the field that s fills.
func (f *Fields) Get(s Step) string {
	if !s.Valid() {
		return ""
	}
	return *stepFields[s](f)
}

// PremiumTracker remembers whether any step used a premium emoji. Once set it
// stays set for the rest of the flow.
type PremiumTracker struct {
	seen bool
}

func (p *PremiumTracker) Observe(hasPremium bool) {
	p.seen = p.seen || hasPremium
}

func (p *PremiumTracker) Seen() bool {
	return p.seen
}
