package scenario

// Depiction describes an entity to the player.
type Depiction interface {
	Title() string       // short summary
	Description() string // long description
	Image() string       // image identifier
}

// StaticDepiction is a Depiction with fixed text.
type StaticDepiction struct {
	title       string
	description string
	image       string
}

var _ Depiction = StaticDepiction{}

// NewDepiction creates a static depiction.
func NewDepiction(title, description, image string) StaticDepiction {
	return StaticDepiction{
		title:       title,
		description: description,
		image:       image,
	}
}

func (d StaticDepiction) Title() string       { return d.title }
func (d StaticDepiction) Description() string { return d.description }
func (d StaticDepiction) Image() string       { return d.image }

// DepictionRecord is the JSON form of a depiction.
type DepictionRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Build converts the record into a static depiction.
func (r DepictionRecord) Build() StaticDepiction {
	return NewDepiction(r.Title, r.Description, r.Image)
}

// RecordDepiction captures the current values of any depiction.
func RecordDepiction(d Depiction) DepictionRecord {
	return DepictionRecord{
		Title:       d.Title(),
		Description: d.Description(),
		Image:       d.Image(),
	}
}
