package scenario

// Detail is a single fact revealed within a consequence.
type Detail interface {
	Description() string
	Image() string
}

// Consequence is one narrative beat shown before an outcome reaches its target.
type Consequence interface {
	Depiction() Depiction
	Details() []Detail
	// Resolution is the label of the "continue" choice.
	Resolution() string
}

// Outcome is the result of performing an action.
// With no consequences the player moves to Target immediately.
type Outcome interface {
	Target() string
	Consequences() []Consequence
}

// StaticDetail is a Detail with fixed text.
type StaticDetail struct {
	description string
	image       string
}

// NewDetail creates a static detail.
func NewDetail(description, image string) StaticDetail {
	return StaticDetail{description: description, image: image}
}

func (d StaticDetail) Description() string { return d.description }
func (d StaticDetail) Image() string       { return d.image }

// StaticConsequence is a Consequence with fixed content.
type StaticConsequence struct {
	depiction  Depiction
	details    []Detail
	resolution string
}

// NewConsequence creates a static consequence. The details slice is copied.
func NewConsequence(depiction Depiction, resolution string, details ...Detail) StaticConsequence {
	return StaticConsequence{
		depiction:  depiction,
		details:    append([]Detail(nil), details...),
		resolution: resolution,
	}
}

func (c StaticConsequence) Depiction() Depiction { return c.depiction }
func (c StaticConsequence) Resolution() string   { return c.resolution }

func (c StaticConsequence) Details() []Detail {
	return append([]Detail(nil), c.details...)
}

// StaticOutcome is an Outcome with fixed content.
type StaticOutcome struct {
	target       string
	consequences []Consequence
}

// NewOutcome creates a static outcome. The consequences slice is copied.
func NewOutcome(target string, consequences ...Consequence) StaticOutcome {
	return StaticOutcome{
		target:       target,
		consequences: append([]Consequence(nil), consequences...),
	}
}

func (o StaticOutcome) Target() string { return o.target }

func (o StaticOutcome) Consequences() []Consequence {
	return append([]Consequence(nil), o.consequences...)
}

// DetailRecord is the JSON form of a detail.
type DetailRecord struct {
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ConsequenceRecord is the JSON form of a consequence.
type ConsequenceRecord struct {
	Depiction  DepictionRecord `json:"depiction"`
	Details    []DetailRecord  `json:"details"`
	Resolution string          `json:"resolution"`
}

// OutcomeRecord is the JSON form of an outcome.
type OutcomeRecord struct {
	Target       string              `json:"target"`
	Consequences []ConsequenceRecord `json:"consequences,omitempty"`
}

func (r DetailRecord) Build() StaticDetail {
	return NewDetail(r.Description, r.Image)
}

func (r ConsequenceRecord) Build() StaticConsequence {
	details := make([]Detail, 0, len(r.Details))
	for _, d := range r.Details {
		details = append(details, d.Build())
	}
	return NewConsequence(r.Depiction.Build(), r.Resolution, details...)
}

func (r OutcomeRecord) Build() StaticOutcome {
	consequences := make([]Consequence, 0, len(r.Consequences))
	for _, c := range r.Consequences {
		consequences = append(consequences, c.Build())
	}
	return NewOutcome(r.Target, consequences...)
}

// RecordDetail captures the current values of any detail.
func RecordDetail(d Detail) DetailRecord {
	return DetailRecord{Description: d.Description(), Image: d.Image()}
}

// RecordConsequence captures the current values of any consequence.
// Details is never nil so it encodes as an empty JSON array.
func RecordConsequence(c Consequence) ConsequenceRecord {
	details := c.Details()
	rec := ConsequenceRecord{
		Depiction:  RecordDepiction(c.Depiction()),
		Details:    make([]DetailRecord, 0, len(details)),
		Resolution: c.Resolution(),
	}
	for _, d := range details {
		rec.Details = append(rec.Details, RecordDetail(d))
	}
	return rec
}

// RecordOutcome captures the current values of any outcome.
func RecordOutcome(o Outcome) OutcomeRecord {
	rec := OutcomeRecord{Target: o.Target()}
	for _, c := range o.Consequences() {
		rec.Consequences = append(rec.Consequences, RecordConsequence(c))
	}
	return rec
}
