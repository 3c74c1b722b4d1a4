package cache

// Keyer derives cache keys from job parameters.
type Keyer interface {
	// PlanKey keys a complete plan of the given mode.
	PlanKey(mode string, opts PlanKeyOpts) string

	// PapersKey keys the compatible paper list of an area.
	PapersKey(opts PapersKeyOpts) string
}

// PlanKeyOpts lists everything a plan depends on.
type PlanKeyOpts struct {
	BBox     string  `json:"bbox"`
	AreaHash string  `json:"area_hash,omitempty"`
	Tracks   string  `json:"tracks,omitempty"`
	PaperW   float64 `json:"paper_w"`
	PaperH   float64 `json:"paper_h"`
	Language string  `json:"language"`
	Title    string  `json:"title,omitempty"`
	Index    string  `json:"index,omitempty"`
	Position string  `json:"position,omitempty"`

	// SourceHash identifies the gazetteer content, ConfigHash the presets
	// and layout settings.
	SourceHash string `json:"source_hash,omitempty"`
	ConfigHash string `json:"config_hash,omitempty"`
}

// PapersKeyOpts lists what a compatible paper list depends on.
type PapersKeyOpts struct {
	BBox       string  `json:"bbox"`
	Scale      float64 `json:"scale"`
	Position   string  `json:"position,omitempty"`
	Multipage  bool    `json:"multipage,omitempty"`
	ConfigHash string  `json:"config_hash,omitempty"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey returns "plan:<mode>:<sha256>".
func (DefaultKeyer) PlanKey(mode string, opts PlanKeyOpts) string {
	return hashKey("plan:"+mode, opts)
}

// PapersKey returns "papers:<sha256>".
func (DefaultKeyer) PapersKey(opts PapersKeyOpts) string {
	return hashKey("papers", opts)
}

var _ Keyer = DefaultKeyer{}
