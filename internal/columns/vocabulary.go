package columns

// Time component kinds recognised in table headers.
const (
	TimeDatetime = "datetime"
	TimeYear     = "year"
	TimeMonth    = "month"
	TimeDay      = "day"
	TimeDOY      = "doy"
	TimeHour     = "hour"
	TimeMinute   = "minute"
	TimeClock    = "time"
)

// TimeSynonyms lists header spellings per time component, in canonical form.
var TimeSynonyms = map[string][]string{
	TimeDatetime: {"datetime", "date_time", "date time", "timestamp", "time_stamp", "datehour", "datehourutc"},
	TimeYear:     {"year", "yyyy", "yr", "annee"},
	TimeMonth:    {"month", "mon", "mm", "mois"},
	TimeDay:      {"day", "dd", "jour"},
	TimeDOY:      {"doy", "dayofyear", "day_of_year", "dayofyearutc"},
	TimeHour:     {"hour", "hr", "hh"},
	TimeMinute:   {"minute", "min", "mn"},
	TimeClock:    {"time", "hhmm", "hourminute", "hour_minute"},
}

// VariableSynonyms lists header spellings per canonical meteo variable.
var VariableSynonyms = map[string][]string{
	"ghi": {"ghi", "global_horizontal", "globalhorizontal", "global_hor", "globhor",
		"globalhorizontalirradiation", "globalhorizontalirradiance"},
	"dni": {"dni", "direct_normal", "directnormal", "beam_normal", "beamnormal",
		"directnormalirradiation", "directnormalirradiance"},
	"dhi": {"dhi", "dif", "diffuse_horizontal", "diffusehorizontal", "diffuse_hor",
		"diffusehorizontalirradiation", "diffusehorizontalirradiance"},
	"gpi": {"gpi", "global_inclined", "globalinclined", "global_tilted", "globaltilted",
		"gti", "poa", "plane_of_array", "planeofarray"},
	"temp": {"temp", "temperature", "tair", "ta", "tamb", "ambient_temperature",
		"ambienttemperature", "air_temperature", "airtemperature"},
	"wind_speed": {"ws", "wind_speed", "windspeed", "windvel", "wind_vel", "windvelocity",
		"wind_velocity", "windvel10m"},
	"wind_direction": {"wd", "wind_direction", "winddirection", "winddir", "wind_dir",
		"winddir10m", "winddirection10m"},
	"relative_humidity":   {"relative_humidity", "rh", "humidity", "humid", "relhumidity"},
	"total_precipitation": {"total_precipitation", "precipitation", "precip", "prcp"},
	"snowfall":            {"snowfall", "snow", "snow_depth", "snowdepth"},
}

// ShortCodes maps vendor abbreviations (upper case) to canonical variables.
var ShortCodes = map[string]string{
	"GHI":     "ghi",
	"DNI":     "dni",
	"DIF":     "dhi",
	"DHI":     "dhi",
	"GTI":     "gpi",
	"POA":     "gpi",
	"TEMP":    "temp",
	"TAMB":    "temp",
	"WS":      "wind_speed",
	"WINDVEL": "wind_speed",
	"WD":      "wind_direction",
	"WINDDIR": "wind_direction",
	"RH":      "relative_humidity",
	"PRECIP":  "total_precipitation",
	"SNOW":    "snowfall",
}

// MeteoColumns are the canonical columns kept in a weather dataset.
var MeteoColumns = []string{"ghi", "dni", "dhi", "gpi", "temp", "wind_speed", "wind_direction"}
