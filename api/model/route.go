package model

import (
	"github.com/a-bouts/ride-server/latlon"
	"github.com/a-bouts/ride-server/route"
)

type Decode struct {
	Polyline  string  `json:"polyline"`
	Precision int     `json:"precision"`
	Simplify  float64 `json:"simplify"`
}

type Encode struct {
	Name      string          `json:"name"`
	Waypoints []latlon.LatLon `json:"waypoints"`
	Precision int             `json:"precision"`
}

type Encoded struct {
	Polyline string        `json:"polyline"`
	Distance float64       `json:"distance"`
	Bounds   latlon.Bounds `json:"bounds"`
}

type Waypoints struct {
	Waypoints []latlon.LatLon `json:"waypoints"`
	Pad       float64         `json:"pad"`
}

type Fetch struct {
	URL      string  `json:"url"`
	Simplify float64 `json:"simplify"`
}

type Track struct {
	Id       string         `json:"id"`
	Geometry route.Geometry `json:"geometry"`
}

type Error struct {
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}
