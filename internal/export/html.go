package export

import (
	"bytes"
	"fmt"
	"html/template"

	"ai-travel-planner/internal/planner"
)

var htmlFuncs = template.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"money":  func(v planner.Amount) string { return fmt.Sprintf("%.2f", float64(v)) },
	"dollar": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

var htmlTemplate = template.Must(template.New("Itinerary").Funcs(htmlFuncs).Parse(`<p><strong>{{.DurationDays}} days in {{.Destination}}</strong> for {{.Travelers}} traveler(s), {{.StartDate}} to {{.EndDate}}. Budget: ${{.Budget}} {{.Currency}}.</p>
{{range $i, $d := .Days}}<h2>Day {{inc $i}}: {{$d.City}} ({{$d.Date}})</h2>
<ul>
{{- range $d.Activities}}
<li><strong>{{.Time}}</strong> {{.Name}}{{if .Location}} @ {{.Location}}{{end}} (${{money .Cost}}){{if .Description}}<br>{{.Description}}{{end}}</li>
{{- end}}
{{- range $d.Meals}}
<li><strong>{{.Time}}</strong> {{.Meal}}{{if .Restaurant}} at {{.Restaurant}}{{end}} (${{money .Cost}})</li>
{{- end}}
{{- range $d.Transportation}}
<li>{{.From}} to {{.To}} by {{.Method}} (${{money .Cost}})</li>
{{- end}}
</ul>
{{if $d.Tips}}<p><em>{{$d.Tips}}</em></p>
{{end}}{{end}}
{{- if .Flights}}<h2>Flight options</h2>
<ul>
{{- range .Flights}}
<li>{{.Airline}} {{.FlightNumber}}: {{.DepartureAirport}} to {{.ArrivalAirport}}, {{.DepartureTime}}, ${{dollar .Price}}</li>
{{- end}}
</ul>
{{end}}
{{- if .Hotels}}<h2>Where to stay</h2>
<ul>
{{- range .Hotels}}
<li>{{.Name}}: ${{dollar .PricePerNight}} per night</li>
{{- end}}
</ul>
{{end}}`))

// HTML renders it as an HTML fragment suitable for a blog post body.
func HTML(it *planner.Itinerary) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, NewDocument(it)); err != nil {
		return "", fmt.Errorf("failed to render itinerary html: %w", err)
	}
	return buf.String(), nil
}

// Title is the post title used when publishing it.
func Title(it *planner.Itinerary) string {
	return fmt.Sprintf("%d days in %s", it.DurationDays, it.Destination)
}
