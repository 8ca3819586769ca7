package assets

// DriverImages bundles the images shown on a driver card.
type DriverImages struct {
	Driver       string `json:"driver"`
	DriverAvatar string `json:"driverAvatar"`
	Team         string `json:"team,omitempty"` // empty without a constructor
	Helmet       string `json:"helmet"`
}

type CircuitImages struct {
	Circuit  string `json:"circuit"`
	TrackMap string `json:"trackMap"`
}

func (r *Resolver) DriverImages(s Subject, constructorID string) DriverImages {
	s.Kind = KindDriver
	imgs := DriverImages{
		Driver:       r.Resolve(s).URL,
		DriverAvatar: r.catalog.DriverAvatar(s.GivenName, s.FamilyName, s.Nationality),
		Helmet:       Helmet,
	}
	if constructorID != "" {
		imgs.Team = r.Resolve(Subject{Kind: KindTeam, ID: constructorID}).URL
	}
	return imgs
}

func (r *Resolver) CircuitImages(s Subject) CircuitImages {
	s.Kind = KindCircuit
	url := r.Resolve(s).URL
	return CircuitImages{Circuit: url, TrackMap: url}
}
