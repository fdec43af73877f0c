package gps

import "github.com/google/uuid"

// attractionNamespace seeds the stable attraction IDs of the built-in catalog
var attractionNamespace = uuid.MustParse("9b3c52a4-6f0e-4c1a-9d52-2f1f3f8d7c11")

func newAttraction(name, city, state string, lat, lon float64) Attraction {
	return Attraction{
		ID:       uuid.NewSHA1(attractionNamespace, []byte(name)),
		Name:     name,
		City:     city,
		State:    state,
		Location: Location{Latitude: lat, Longitude: lon},
	}
}

var defaultAttractions = []Attraction{
	newAttraction("Disneyland", "Anaheim", "CA", 33.817595, -117.922008),
	newAttraction("Jackson Hole", "Jackson Hole", "WY", 43.582767, -110.821999),
	newAttraction("Mojave National Preserve", "Kelso", "CA", 35.141689, -115.510399),
	newAttraction("Joshua Tree National Park", "Joshua Tree National Park", "CA", 33.881866, -115.90065),
	newAttraction("Buffalo National River", "St Joe", "AR", 35.985512, -92.757652),
	newAttraction("Hot Springs National Park", "Hot Springs", "AR", 34.52153, -93.042267),
	newAttraction("Kartchner Caverns State Park", "Benson", "AZ", 31.837551, -110.347382),
	newAttraction("Legend Valley", "Thornville", "OH", 39.937778, -82.40667),
	newAttraction("Flowers Bakery of London", "Flowers Bakery of London", "KY", 37.131527, -84.07486),
	newAttraction("McKinley Tower", "Anchorage", "AK", 61.218887, -149.877502),
	newAttraction("Flatiron Building", "New York City", "NY", 40.741112, -73.989723),
	newAttraction("Fallingwater", "Mill Run", "PA", 39.906113, -79.468056),
	newAttraction("Union Station", "Washington D.C.", "CA", 38.897095, -77.006332),
	newAttraction("Roger Dean Stadium", "Jupiter", "FL", 26.890959, -80.116577),
	newAttraction("Texas Memorial Stadium", "Austin", "TX", 30.283682, -97.732536),
	newAttraction("Bryant-Denny Stadium", "Tuscaloosa", "AL", 33.208973, -87.550438),
	newAttraction("Tiger Stadium", "Baton Rouge", "LA", 30.412035, -91.183815),
	newAttraction("Neyland Stadium", "Knoxville", "TN", 35.955013, -83.925011),
	newAttraction("Kyle Field", "College Station", "TX", 30.61025, -96.339844),
	newAttraction("San Diego Zoo", "San Diego", "CA", 32.735317, -117.149048),
	newAttraction("Zoo Tampa at Lowry Park", "Tampa", "FL", 28.012804, -82.469269),
	newAttraction("Franklin Park Zoo", "Boston", "MA", 42.302601, -71.086731),
	newAttraction("El Paso Zoo", "El Paso", "TX", 31.769125, -106.44487),
	newAttraction("Kansas City Zoo", "Kansas City", "MO", 39.007504, -94.529625),
	newAttraction("Bronx Zoo", "Bronx", "NY", 40.852905, -73.872971),
	newAttraction("Cinderella Castle", "Orlando", "FL", 28.419411, -81.5812),
}

// DefaultAttractions returns a copy of the built-in attraction catalog
func DefaultAttractions() []Attraction {
	out := make([]Attraction, len(defaultAttractions))
	copy(out, defaultAttractions)
	return out
}
