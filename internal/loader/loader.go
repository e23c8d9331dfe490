// Package loader reads network definitions from CSV and validates them
// before the optimizers see them.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hubnet/internal/network"
)

// Header columns, in any order: id,x,y,type,demand,upkeep,processing.
// Rows use type source|hub|demand; demand applies to demand rows, upkeep and
// processing to hub rows.

// LoadCSV parses a network definition, validates it, and returns it
// initialized (all hubs active, first assignment done).
func LoadCSV(r io.Reader, transportRate float64) (*network.Network, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, invalidf("missing header: %v", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "x", "y", "type"} {
		if _, ok := col[required]; !ok {
			return nil, invalidf("header is missing column %q", required)
		}
	}

	var (
		sources []network.Source
		hubs    []network.Hub
		demands []network.DemandPoint
	)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidf("line %d: %v", line+1, err)
		}
		line++

		id, err := atoi(field(rec, col, "id"))
		if err != nil {
			return nil, invalidf("line %d: bad id: %v", line, err)
		}
		x, err := atof(field(rec, col, "x"))
		if err != nil {
			return nil, invalidf("line %d: bad x: %v", line, err)
		}
		y, err := atof(field(rec, col, "y"))
		if err != nil {
			return nil, invalidf("line %d: bad y: %v", line, err)
		}
		pt := network.Point{X: x, Y: y}

		switch strings.ToLower(field(rec, col, "type")) {
		case network.KindSource:
			sources = append(sources, network.Source{ID: id, Point: pt})
		case network.KindHub:
			upkeep, err := atof(field(rec, col, "upkeep"))
			if err != nil {
				return nil, invalidf("line %d: bad upkeep: %v", line, err)
			}
			processing, err := atof(field(rec, col, "processing"))
			if err != nil {
				return nil, invalidf("line %d: bad processing: %v", line, err)
			}
			hubs = append(hubs, network.Hub{ID: id, Point: pt, Upkeep: upkeep, ProcessingRate: processing})
		case network.KindDemand:
			demand, err := atof(field(rec, col, "demand"))
			if err != nil {
				return nil, invalidf("line %d: bad demand: %v", line, err)
			}
			demands = append(demands, network.DemandPoint{ID: id, Point: pt, Demand: demand, AssignedHub: network.Unassigned})
		default:
			return nil, invalidf("line %d: unknown element type %q", line, field(rec, col, "type"))
		}
	}

	n := network.New(sources, hubs, demands, transportRate)
	if err := n.Init(); err != nil {
		return nil, err
	}
	return n, nil
}

// LoadFile is LoadCSV over a file path.
func LoadFile(path string, transportRate float64) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadCSV(f, transportRate)
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func atoi(s string) (int, error) { return strconv.Atoi(s) }

func atof(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func invalidf(format string, args ...any) error {
	return &network.ValidationError{Reason: fmt.Sprintf(format, args...)}
}
