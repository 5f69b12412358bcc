package units

// KelvinOffset is the Kelvin value of 0°C.
const KelvinOffset = 273.15

// Converted holds a temperature expressed in Celsius and Fahrenheit.
type Converted struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
}

// FromKelvin converts a Kelvin value. Defined for every finite input; physically
// implausible values (negative Kelvin) are converted, not rejected.
func FromKelvin(k float64) Converted {
	c := k - KelvinOffset
	return Converted{
		Celsius:    c,
		Fahrenheit: CelsiusToFahrenheit(c),
	}
}

// CelsiusToFahrenheit converts a Celsius value to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
