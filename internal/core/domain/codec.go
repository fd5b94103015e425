package domain

// EncodeRoute converts an in-memory route into its storage form.
func EncodeRoute(route []Coordinate) StoredRoute {
	out := make(StoredRoute, len(route))
	for i, c := range route {
		out[i] = LabeledOf(LngLat{Lng: c[0], Lat: c[1]})
	}
	return out
}

// DecodeRoute converts a stored route back to ordered pairs. Routes saved
// before the labeled format existed are already pairs and come back as-is.
// Each element is converted by its own form tag, so a route mixing both
// forms decodes element by element.
func DecodeRoute(data StoredRoute) []Coordinate {
	out := make([]Coordinate, len(data))
	for i, s := range data {
		out[i] = s.Coordinate()
	}
	return out
}

// IsLegacyRoute reports whether a stored route uses the old array form.
// Only the first element is inspected.
func IsLegacyRoute(data StoredRoute) bool {
	return len(data) > 0 && data[0].Form == FormPair
}

// EncodePins returns copies of the pins with pair coordinates replaced by
// labeled records. Everything else is copied as-is.
func EncodePins(pins []Pin) []Pin {
	out := make([]Pin, len(pins))
	for i, p := range pins {
		if p.Coords.Form == FormPair {
			p.Coords = LabeledOf(LngLat{Lng: p.Coords.Pair[0], Lat: p.Coords.Pair[1]})
		}
		out[i] = p
	}
	return out
}

// DecodePins is the inverse of EncodePins.
func DecodePins(pins []Pin) []Pin {
	out := make([]Pin, len(pins))
	for i, p := range pins {
		if p.Coords.Form == FormLabeled {
			p.Coords = PairOf(Coordinate{p.Coords.Labeled.Lng, p.Coords.Labeled.Lat})
		}
		out[i] = p
	}
	return out
}
