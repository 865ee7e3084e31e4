package layout

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
)

var svgTemplate = template.Must(template.New("dag").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<defs>
<marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
<path d="M 0 0 L 10 5 L 0 10 z" fill="context-stroke"/>
</marker>
</defs>
<g class="edges">
{{- range .Edges}}
<path class="edge{{if .Hovered}} hovered{{end}}" data-from="{{.From}}" data-to="{{.To}}" d="{{.Path}}" fill="none" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}" marker-end="url(#arrow)"/>
{{- end}}
</g>
<g class="nodes">
{{- range .Nodes}}
<g class="node{{if .Selected}} selected{{end}}" data-task="{{.ID}}">
<rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" rx="4" fill="{{.Fill}}" stroke="{{.Border}}"/>
<text x="{{.TextX}}" y="{{.TextY}}" text-anchor="middle" dominant-baseline="middle" fill="#FFFFFF">{{.ID}}</text>
</g>
{{- end}}
</g>
</svg>
`))

type svgEdge struct {
	From        string
	To          string
	Path        string
	Stroke      string
	StrokeWidth string
	Hovered     bool
}

type svgNode struct {
	ID       string
	X, Y     string
	W, H     string
	TextX    string
	TextY    string
	Fill     string
	Border   string
	Selected bool
}

type svgDocument struct {
	Width  string
	Height string
	Edges  []svgEdge
	Nodes  []svgNode
}

// Render writes the diagram as a standalone SVG document. An empty layout
// produces an empty drawing.
func (d *Diagram) Render(w io.Writer) error {
	l := d.layout
	width, height := l.Size()
	doc := svgDocument{
		Width:  num(width),
		Height: num(height),
		Edges:  []svgEdge{},
		Nodes:  []svgNode{},
	}

	hovered, hasHover := d.HighlightedEdge()
	for _, e := range l.Edges {
		curve, ok := l.Curve(e)
		if !ok {
			continue
		}
		isHovered := hasHover && hovered == e
		edge := svgEdge{
			From:        e.From,
			To:          e.To,
			Path:        pathData(curve),
			Stroke:      colorEdge,
			StrokeWidth: num(edgeWidth),
			Hovered:     isHovered,
		}
		if isHovered {
			edge.Stroke = colorEdgeHover
			edge.StrokeWidth = num(edgeWidthHovered)
		}
		doc.Edges = append(doc.Edges, edge)
	}

	for _, n := range l.Nodes {
		node := svgNode{
			ID:     n.ID,
			X:      num(n.X),
			Y:      num(n.Y),
			W:      num(l.Options.NodeWidth),
			H:      num(l.Options.NodeHeight),
			TextX:  num(n.X + l.Options.NodeWidth/2),
			TextY:  num(n.Y + l.Options.NodeHeight/2),
			Fill:   d.Color(n.ID),
			Border: colorBorder,
		}
		if n.ID == d.selected {
			node.Selected = true
			node.Border = colorSelected
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	if err := svgTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}
	return nil
}

func pathData(b Bezier) string {
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(b.P0.X), num(b.P0.Y),
		num(b.P1.X), num(b.P1.Y),
		num(b.P2.X), num(b.P2.Y),
		num(b.P3.X), num(b.P3.Y))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
