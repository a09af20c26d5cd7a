/*
Package export materializes a maze snapshot into the JSON document
consumed by the offline plotting tools.

The document layout is the plotter's contract: nodes keyed "x_y", a
flattened wall list keyed "x,y,direction", a dense grid covering the
full boundary rectangle with unexplored cells defaulting to all walls,
and the chronological robot path. The engine's tri-state wall
knowledge is collapsed to booleans here and nowhere earlier.
*/
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beka-birhanu/rover-mapper/maze"
)

// Boundaries describes the exploration rectangle in the document.
type Boundaries struct {
	MinX   int `json:"min_x"`
	MaxX   int `json:"max_x"`
	MinY   int `json:"min_y"`
	MaxY   int `json:"max_y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Metadata heads the document.
type Metadata struct {
	ExportTimestamp    string     `json:"export_timestamp"`
	RunID              string     `json:"run_id,omitempty"`
	TotalNodesExplored int        `json:"total_nodes_explored"`
	Boundaries         Boundaries `json:"boundaries"`
	RobotStartPosition [2]int     `json:"robot_start_position"`
	WallThresholdCm    float64    `json:"wall_threshold_cm"`
}

// Node is the exported view of one discovered cell.
type Node struct {
	Position           [2]int             `json:"position"`
	Walls              map[string]bool    `json:"walls"`
	Visited            bool               `json:"visited"`
	VisitCount         int                `json:"visit_count"`
	IsDeadEnd          bool               `json:"is_dead_end"`
	FullyScanned       bool               `json:"fully_scanned"`
	LastVisited        uint64             `json:"last_visited"`
	Neighbors          map[string]*[2]int `json:"neighbors"`
	UnexploredExits    []string           `json:"unexplored_exits"`
	ExploredDirections []string           `json:"explored_directions"`
	OutOfBoundsExits   []string           `json:"out_of_bounds_exits"`
	OutOfBoundsCount   int                `json:"out_of_bounds_count"`
}

// Wall is one entry of the flattened wall list.
type Wall struct {
	Position  [2]int `json:"position"`
	Direction string `json:"direction"`
	WallType  string `json:"wall_type"`
}

// GridCell is one entry of the dense grid representation.
type GridCell struct {
	Explored   bool            `json:"explored"`
	Walls      map[string]bool `json:"walls"`
	VisitCount int             `json:"visit_count"`
	IsDeadEnd  bool            `json:"is_dead_end"`
}

// Analysis summarizes one node for the report section.
type Analysis struct {
	TotalPossibleExits int `json:"total_possible_exits"`
	WallsCount         int `json:"walls_count"`
	AvailableExits     int `json:"available_exits"`
	OutOfBoundsBlocked int `json:"out_of_bounds_blocked"`
	CanExploreCount    int `json:"can_explore_count"`
}

// Document is the full export payload.
type Document struct {
	Metadata     Metadata            `json:"metadata"`
	Nodes        map[string]Node     `json:"nodes"`
	RobotPath    [][2]int            `json:"robot_path"`
	Walls        map[string]Wall     `json:"walls"`
	Grid         map[string]GridCell `json:"grid_representation"`
	NodeAnalysis map[string]Analysis `json:"node_analysis"`
}

// Options parameterize a build.
type Options struct {
	RunID           string
	WallThresholdCm float64
	ExportedAt      time.Time
}

// collapse folds the tri-state into the serialized boolean: anything
// not known to be open counts as a wall.
func collapse(s maze.WallState) bool {
	return s != maze.WallOpen
}

func nodeKey(p maze.Position) string {
	return fmt.Sprintf("%d_%d", p.X, p.Y)
}

func gridKey(p maze.Position) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func wallKey(p maze.Position, d maze.Direction) string {
	return fmt.Sprintf("%d,%d,%s", p.X, p.Y, d)
}

func pair(p maze.Position) [2]int {
	return [2]int{p.X, p.Y}
}

func directionNames(dirs []maze.Direction) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, d.String())
	}
	return out
}

// Build converts a snapshot into the plotter document.
func Build(snap *maze.Snapshot, opts Options) *Document {
	if opts.ExportedAt.IsZero() {
		opts.ExportedAt = time.Now()
	}
	bounds := snap.Bounds

	doc := &Document{
		Metadata: Metadata{
			ExportTimestamp:    opts.ExportedAt.Format(time.RFC3339),
			RunID:              opts.RunID,
			TotalNodesExplored: len(snap.Cells),
			Boundaries: Boundaries{
				MinX:   bounds.MinX,
				MaxX:   bounds.MaxX,
				MinY:   bounds.MinY,
				MaxY:   bounds.MaxY,
				Width:  bounds.Width(),
				Height: bounds.Height(),
			},
			WallThresholdCm: opts.WallThresholdCm,
		},
		Nodes:        make(map[string]Node, len(snap.Cells)),
		RobotPath:    make([][2]int, 0, len(snap.Path)),
		Walls:        make(map[string]Wall),
		Grid:         make(map[string]GridCell, bounds.CellCount()),
		NodeAnalysis: make(map[string]Analysis, len(snap.Cells)),
	}

	for _, pos := range snap.Path {
		doc.RobotPath = append(doc.RobotPath, pair(pos))
	}
	if len(snap.Path) > 0 {
		doc.Metadata.RobotStartPosition = pair(snap.Path[0])
	}

	for _, cell := range snap.Cells {
		walls := make(map[string]bool, 4)
		neighbors := make(map[string]*[2]int, 4)
		wallsCount := 0
		for _, d := range maze.Directions {
			state := cell.Wall(d)
			walls[d.String()] = collapse(state)
			if collapse(state) {
				wallsCount++
			}

			neighbors[d.String()] = nil
			if n, ok := cell.Neighbors[d]; ok {
				p := pair(n)
				neighbors[d.String()] = &p
			}

			switch state {
			case maze.WallBlocked:
				doc.Walls[wallKey(cell.Pos, d)] = Wall{Position: pair(cell.Pos), Direction: d.String(), WallType: "detected"}
			case maze.WallOutOfBounds:
				doc.Walls[wallKey(cell.Pos, d)] = Wall{Position: pair(cell.Pos), Direction: d.String(), WallType: "boundary"}
			}
		}

		doc.Nodes[nodeKey(cell.Pos)] = Node{
			Position:           pair(cell.Pos),
			Walls:              walls,
			Visited:            cell.Visited,
			VisitCount:         cell.VisitCount,
			IsDeadEnd:          cell.IsDeadEnd,
			FullyScanned:       cell.FullyScanned,
			LastVisited:        cell.LastVisited,
			Neighbors:          neighbors,
			UnexploredExits:    directionNames(cell.Unexplored),
			ExploredDirections: directionNames(cell.Explored),
			OutOfBoundsExits:   directionNames(cell.OutOfBounds),
			OutOfBoundsCount:   len(cell.OutOfBounds),
		}

		doc.NodeAnalysis[nodeKey(cell.Pos)] = Analysis{
			TotalPossibleExits: 4,
			WallsCount:         wallsCount,
			AvailableExits:     4 - wallsCount,
			OutOfBoundsBlocked: len(cell.OutOfBounds),
			CanExploreCount:    len(cell.Unexplored),
		}
	}

	for y := bounds.MinY; y <= bounds.MaxY; y++ {
		for x := bounds.MinX; x <= bounds.MaxX; x++ {
			pos := maze.Position{X: x, Y: y}
			if cell, ok := snap.CellAt(pos); ok {
				walls := make(map[string]bool, 4)
				for _, d := range maze.Directions {
					walls[d.String()] = collapse(cell.Wall(d))
				}
				doc.Grid[gridKey(pos)] = GridCell{
					Explored:   true,
					Walls:      walls,
					VisitCount: cell.VisitCount,
					IsDeadEnd:  cell.IsDeadEnd,
				}
				continue
			}
			doc.Grid[gridKey(pos)] = GridCell{
				Explored: false,
				Walls:    map[string]bool{"north": true, "south": true, "east": true, "west": true},
			}
		}
	}

	return doc
}

// WriteFile writes the document as indented JSON, creating parent
// directories as needed.
func WriteFile(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
