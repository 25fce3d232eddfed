package progress

// CharacterID identifies one of the selectable astronauts.
type CharacterID string

const (
	Mimi CharacterID = "Mimi"
	Roko CharacterID = "Roko"
	Coco CharacterID = "Coco"
	Titi CharacterID = "Titi"
)

// Character is a static catalog entry. Characters are never mutated.
type Character struct {
	ID          CharacterID
	Name        string
	Color       string
	Description string
	Greeting    string
	VoiceName   string
	ImageURL    string
}

// PlanetID identifies a planet. The value doubles as its display name.
type PlanetID string

const (
	Mercury PlanetID = "Merkür"
	Venus   PlanetID = "Venüs"
	Earth   PlanetID = "Dünya"
	Mars    PlanetID = "Mars"
	Jupiter PlanetID = "Jüpiter"
	Saturn  PlanetID = "Satürn"
	Uranus  PlanetID = "Uranüs"
	Neptune PlanetID = "Neptün"
	Pluto   PlanetID = "Plüton"
)

// MaxStars is the best rating a planet can carry.
const MaxStars = 3

// Planet is one stop on the solar map.
type Planet struct {
	ID          PlanetID
	Name        string
	Color       string
	Description string
	Unlocked    bool
	Stars       int
}

// Screen is the top-level view derived from the progress state.
type Screen int

const (
	ScreenCharacterSelect Screen = iota
	ScreenMap
	ScreenMiniGame
)

func (s Screen) String() string {
	switch s {
	case ScreenCharacterSelect:
		return "character-select"
	case ScreenMap:
		return "map"
	case ScreenMiniGame:
		return "minigame"
	default:
		return "unknown"
	}
}

var characters = []Character{
	{
		ID: Mimi, Name: "Mimi", Color: "#ec4899", Description: "Pembe Astronot",
		Greeting:  "Merhaba! Ben Mimi. Hadi uzayı pembe renge boyayalım!",
		VoiceName: "Kore",
		ImageURL:  "https://i.pinimg.com/736x/1e/22/d4/1e22d417c0e8f69c7b92a40be044484f.jpg",
	},
	{
		ID: Roko, Name: "Roko", Color: "#2563eb", Description: "Mavi Astronot",
		Greeting:  "Selam! Ben Roko. Mavi gezegenleri keşfetmeye hazır mısın?",
		VoiceName: "Fenrir",
		ImageURL:  "https://i.pinimg.com/736x/42/a0/ee/42a0eef31098c3fc2b9fe815936ca36d.jpg",
	},
	{
		ID: Coco, Name: "Coco", Color: "#f97316", Description: "Kedi Astronot",
		Greeting:  "Miyav! Ben Coco. Uzayda süt var mı acaba?",
		VoiceName: "Puck",
		ImageURL:  "https://i.pinimg.com/736x/33/84/e8/3384e84c8dc22ba7011f0814ade99197.jpg",
	},
	{
		ID: Titi, Name: "Titi", Color: "#eab308", Description: "Robot Astronot",
		Greeting:  "Bip bip! Ben Titi. Sistemler hazır, uçuşa geçiyoruz!",
		VoiceName: "Zephyr",
		ImageURL:  "https://i.pinimg.com/1200x/10/6d/5c/106d5c8df0612ae33b4301e807b3222e.jpg",
	},
}

var initialPlanets = []Planet{
	{ID: Mercury, Name: "Merkür", Color: "#fbbf24", Description: "Sıcak ve Hızlı!", Unlocked: true},
	{ID: Venus, Name: "Venüs", Color: "#f97316", Description: "Parlak Gezegen"},
	{ID: Earth, Name: "Dünya", Color: "#3b82f6", Description: "Evimiz"},
	{ID: Mars, Name: "Mars", Color: "#ef4444", Description: "Kızıl Gezegen"},
	{ID: Jupiter, Name: "Jüpiter", Color: "#d97706", Description: "Dev Gezegen"},
	{ID: Saturn, Name: "Satürn", Color: "#eab308", Description: "Halkalı Güzel"},
	{ID: Uranus, Name: "Uranüs", Color: "#06b6d4", Description: "Buz Devi"},
	{ID: Neptune, Name: "Neptün", Color: "#3b82f6", Description: "Rüzgarlı Mavi"},
	{ID: Pluto, Name: "Plüton", Color: "#a8a29e", Description: "Küçük Dost"},
}

// Characters returns a copy of the character catalog.
func Characters() []Character {
	out := make([]Character, len(characters))
	copy(out, characters)
	return out
}

// LookupCharacter finds a catalog entry by id.
func LookupCharacter(id CharacterID) (Character, bool) {
	for _, c := range characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// PlanetOrder returns the planet ids in map order.
func PlanetOrder() []PlanetID {
	out := make([]PlanetID, len(initialPlanets))
	for i, p := range initialPlanets {
		out[i] = p.ID
	}
	return out
}

// ParsePlanetID matches a planet id, accepting the English names as aliases
// so URLs and flags can stay ASCII.
func ParsePlanetID(s string) (PlanetID, bool) {
	for _, p := range initialPlanets {
		if string(p.ID) == s {
			return p.ID, true
		}
	}
	if id, ok := planetAliases[s]; ok {
		return id, true
	}
	return "", false
}

var planetAliases = map[string]PlanetID{
	"mercury": Mercury,
	"venus":   Venus,
	"earth":   Earth,
	"mars":    Mars,
	"jupiter": Jupiter,
	"saturn":  Saturn,
	"uranus":  Uranus,
	"neptune": Neptune,
	"pluto":   Pluto,
}
