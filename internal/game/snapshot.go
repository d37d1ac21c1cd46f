package game

// Snapshot is the read model handed to renderers and feed clients.
type Snapshot struct {
	Session  string         `json:"session"`
	Tick     uint64         `json:"tick"`
	TimeMS   int64          `json:"time_ms"`
	Planets  []PlanetView   `json:"planets"`
	Ships    []ShipView     `json:"ships"`
	Ledger   LedgerSnapshot `json:"ledger"`
	Refinery RefineryView   `json:"refinery"`
	Caps     Caps           `json:"caps"`
	Speed    float64        `json:"speed"`
	Selected int            `json:"selected"` // -1 when no popup is open
	Messages []Message      `json:"messages"`
}

// PlanetView is one planet in a snapshot. Home is always first.
type PlanetView struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	CoreRadius float64    `json:"core_radius"`
	Level      int        `json:"level"`
	Kind       string     `json:"kind"`
	Rarity     string     `json:"rarity,omitempty"`
	CoreColor  RGB        `json:"core_color"`
	RingColor  RGB        `json:"ring_color"`
	TextColor  RGB        `json:"text_color"`
	Active     bool       `json:"active"`
	Assigned   int        `json:"assigned"`
	Rings      []RingView `json:"rings"`
}

// RingView is the rest radius and current pulse of one ring. Samples holds
// one displacement per segment while the ring is pulsing and is empty at rest.
type RingView struct {
	Radius   float64   `json:"radius"`
	Strength float64   `json:"strength"`
	Samples  []float64 `json:"samples,omitempty"`
}

// ShipView is one ship in a snapshot.
type ShipView struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	State    string  `json:"state"`
	Phase    string  `json:"phase"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Current  int     `json:"current"`
	Assigned int     `json:"assigned"` // -1 when unassigned
	Recalled bool    `json:"recalled"`
}

// RefineryView is the conversion panel state.
type RefineryView struct {
	Busy     bool    `json:"busy"`
	Progress float64 `json:"progress"`
}

// Caps are the counts and limits shown in the fleet panel.
type Caps struct {
	Ships      int `json:"ships"`
	MaxShips   int `json:"max_ships"`
	Planets    int `json:"planets"`
	MaxPlanets int `json:"max_planets"`
}

// Snapshot copies the session state. The result shares nothing with the controller.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Session: c.SessionID,
		Tick:    c.Ticks,
		TimeMS:  c.Now().Milliseconds(),
		Planets: make([]PlanetView, 0, len(c.Planets)+1),
		Ships:   make([]ShipView, 0, len(c.Ships)),
		Ledger:  c.Ledger.Snapshot(),
		Refinery: RefineryView{
			Busy:     c.Refinery.Busy(),
			Progress: c.Refinery.Progress(),
		},
		Caps: Caps{
			Ships:      len(c.Ships),
			MaxShips:   c.MaxShips(),
			Planets:    len(c.Planets),
			MaxPlanets: c.MaxPlanets(),
		},
		Speed:    c.speed,
		Selected: -1,
		Messages: c.Log.Recent(8),
	}
	if c.selected != nil {
		snap.Selected = c.selected.ID
	}

	snap.Planets = append(snap.Planets, c.planetView(c.Home))
	for _, p := range c.Planets {
		snap.Planets = append(snap.Planets, c.planetView(p))
	}
	for _, s := range c.Ships {
		snap.Ships = append(snap.Ships, shipView(s))
	}
	return snap
}

func (c *Controller) planetView(p *Planet) PlanetView {
	v := PlanetView{
		ID:         p.ID,
		Name:       p.Name,
		X:          p.X,
		Y:          p.Y,
		CoreRadius: p.CoreRadius,
		Level:      p.Level,
		Kind:       PlanetKindName(p.Kind),
		CoreColor:  p.CoreColor,
		RingColor:  p.RingColor,
		TextColor:  p.TextColor,
		Active:     p.Active(),
		Assigned:   c.AssignedCount(p),
		Rings:      make([]RingView, len(p.Rings)),
	}
	if p.Rarity != nil {
		v.Rarity = p.Rarity.Name
	}
	for i, r := range p.Rings {
		v.Rings[i] = RingView{Radius: p.RingRadius(i), Strength: r.Strength}
		if r.Active() {
			v.Rings[i].Samples = p.RingSamples(i)
		}
	}
	return v
}

func shipView(s *Ship) ShipView {
	v := ShipView{
		ID:       s.ID,
		X:        s.X,
		Y:        s.Y,
		Angle:    s.Angle,
		State:    string(s.State()),
		Phase:    PhaseName(s.Phase()),
		Status:   s.StatusText(),
		Progress: s.Progress,
		Current:  s.Current.ID,
		Assigned: -1,
		Recalled: s.Recalled(),
	}
	if s.Assigned != nil {
		v.Assigned = s.Assigned.ID
	}
	return v
}
