package source

import (
	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

func asset(name string, path ...string) hierarchy.Record {
	return hierarchy.Record{ID: path[len(path)-1], Path: path, Name: name}
}

// Sample returns a small asset inventory: two sites with buildings, rooms and
// equipment, a standalone site, and one record whose parent is missing.
func Sample() rowmodel.StaticSource {
	return rowmodel.StaticSource{
		asset("North Campus", "site-north"),
		asset("Building A", "site-north", "bldg-a"),
		asset("Server Room", "site-north", "bldg-a", "room-101"),
		asset("Rack 1", "site-north", "bldg-a", "room-101", "rack-1"),
		asset("Rack 2", "site-north", "bldg-a", "room-101", "rack-2"),
		asset("Lobby", "site-north", "bldg-a", "room-102"),
		asset("Building B", "site-north", "bldg-b"),
		asset("Loading Dock", "site-north", "bldg-b", "room-201"),
		asset("South Campus", "site-south"),
		asset("Warehouse", "site-south", "bldg-w"),
		asset("Forklift 7", "site-south", "bldg-w", "forklift-7"),
		asset("Remote Office", "site-remote"),
		asset("Decommissioned Switch", "bldg-x", "switch-9"),
	}
}
