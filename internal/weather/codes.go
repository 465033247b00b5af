package weather

// Symbol is the icon and text shown for a WMO weather code.
type Symbol struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Unknown is shown for codes missing from the table.
var Unknown = Symbol{Icon: "🌡️", Description: "N/A"}

var wmoCodes = map[int]Symbol{
	0:  {"☀️", "Clear sky"},
	1:  {"🌤️", "Mainly clear"},
	2:  {"⛅", "Partly cloudy"},
	3:  {"☁️", "Overcast"},
	45: {"🌫️", "Fog"},
	48: {"🌫️", "Depositing rime fog"},
	51: {"🌦️", "Light drizzle"},
	53: {"🌦️", "Drizzle"},
	55: {"🌧️", "Dense drizzle"},
	61: {"🌧️", "Light rain"},
	63: {"🌧️", "Rain"},
	65: {"🌧️", "Heavy rain"},
	71: {"🌨️", "Light snow"},
	73: {"❄️", "Snow"},
	75: {"❄️", "Heavy snow"},
	80: {"🌦️", "Rain showers"},
	81: {"🌧️", "Moderate rain showers"},
	82: {"⛈️", "Violent rain showers"},
	95: {"⛈️", "Thunderstorm"},
	96: {"⛈️", "Thunderstorm with hail"},
	99: {"⛈️", "Severe thunderstorm"},
}

// Describe maps a WMO code to its symbol, or Unknown.
func Describe(code int) Symbol {
	if s, ok := wmoCodes[code]; ok {
		return s
	}
	return Unknown
}
