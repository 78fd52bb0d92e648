package scenario

// Exit is the single unconditional way out of a location.
type Exit interface {
	Name() string
	Target() string
}

// Location is a node in the story graph.
type Location interface {
	ID() string
	Depiction() Depiction
	// Actions returns the actions available right now, in display order.
	Actions() []Action
	// Exit returns nil when the location cannot be left directly.
	Exit() Exit
	// Visit is called once each time the player arrives.
	Visit()
}

// StaticExit is an Exit with fixed values.
type StaticExit struct {
	name   string
	target string
}

// NewExit creates a static exit.
func NewExit(name, target string) StaticExit {
	return StaticExit{name: name, target: target}
}

func (e StaticExit) Name() string   { return e.name }
func (e StaticExit) Target() string { return e.target }

// ExitRecord is the JSON form of an exit.
type ExitRecord struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

func (r ExitRecord) Build() StaticExit {
	return NewExit(r.Name, r.Target)
}

// StaticLocation is a Location with fixed content and a no-op Visit.
type StaticLocation struct {
	id        string
	depiction Depiction
	actions   []Action
	exit      Exit
}

var _ Location = (*StaticLocation)(nil)

// NewLocation creates a static location. Pass a nil exit for none.
func NewLocation(id string, depiction Depiction, exit Exit, actions ...Action) *StaticLocation {
	return &StaticLocation{
		id:        id,
		depiction: depiction,
		actions:   append([]Action(nil), actions...),
		exit:      exit,
	}
}

func (l *StaticLocation) ID() string           { return l.id }
func (l *StaticLocation) Depiction() Depiction { return l.depiction }
func (l *StaticLocation) Exit() Exit           { return l.exit }
func (l *StaticLocation) Visit()               {}

func (l *StaticLocation) Actions() []Action {
	return append([]Action(nil), l.actions...)
}
