package present

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/malambomutila/ai-weather-app/internal/models"
)

// Console writes reports as plain text lines.
type Console struct {
	out    io.Writer
	errOut io.Writer
}

// NewConsole writes reports to out and failures to errOut.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

// Present writes the report, temperatures to two decimals.
func (c *Console) Present(_ context.Context, r models.Report) error {
	_, err := io.WriteString(c.out, FormatReport(r))
	return err
}

// PresentError writes a single "Error: ..." line.
func (c *Console) PresentError(_ context.Context, err error) error {
	_, werr := fmt.Fprintf(c.errOut, "Error: %s\n", Message(err))
	return werr
}

// FormatReport renders the console text for r.
func FormatReport(r models.Report) string {
	var b strings.Builder
	rd := r.Reading
	fmt.Fprintf(&b, "Temperature in %s is %.2fC / %.2fF / %.2fK\n",
		rd.City, r.Temp.Celsius, r.Temp.Fahrenheit, rd.TempK)
	fmt.Fprintf(&b, "Despite a temperature of %.2fC, the temperature feels like %.2fC / %.2fF / %.2fK.\n",
		r.Temp.Celsius, r.FeelsLike.Celsius, r.FeelsLike.Fahrenheit, rd.FeelsLikeK)
	fmt.Fprintf(&b, "The humidity is %s%%.\n", formatHumidity(rd.Humidity))
	fmt.Fprintf(&b, "The general weather is %s.\n", rd.Description)
	fmt.Fprintf(&b, "Wind speed is %.2f m/s.\n", rd.WindSpeed)
	fmt.Fprintf(&b, "Country: %s\n", rd.Country)
	if r.IconURL != "" {
		fmt.Fprintf(&b, "Icon: %s\n", r.IconURL)
	}
	return b.String()
}
