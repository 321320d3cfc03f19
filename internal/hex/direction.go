package hex

// Direction indexes the six hex edges clockwise starting from north-east.
// World-space +Y is north. Every consumer (river edge bits, spiral walks,
// brushes) relies on this exact ordering: d and d+3 are always opposite.
//
//	0=NE (0,+1)  1=E (+1,0)  2=SE (+1,-1)  3=SW (0,-1)  4=W (-1,0)  5=NW (-1,+1)
type Direction uint8

const (
	NorthEast Direction = iota
	East
	SouthEast
	SouthWest
	West
	NorthWest

	DirectionCount = 6
)

var gridDirections = [DirectionCount]GridCoord{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
}

var cubeDirections = [DirectionCount]CubeCoord{
	{Q: 0, R: 1, S: -1},
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
}

var directionNames = [DirectionCount]string{"NE", "E", "SE", "SW", "W", "NW"}

// Vector returns the unit step in grid coordinates.
func (d Direction) Vector() GridCoord { return gridDirections[d%DirectionCount] }

// Cube returns the unit step in cube coordinates.
func (d Direction) Cube() CubeCoord { return cubeDirections[d%DirectionCount] }

// Opposite returns d+3 mod 6.
func (d Direction) Opposite() Direction { return (d + 3) % DirectionCount }

// Rotate turns n steps clockwise (negative n turns counter-clockwise).
func (d Direction) Rotate(n int) Direction {
	return Direction(FloorMod(int32(d)+int32(n), DirectionCount))
}

func (d Direction) String() string {
	if d >= DirectionCount {
		return "?"
	}
	return directionNames[d]
}

// Valid reports whether d is one of the six edges.
func (d Direction) Valid() bool { return d < DirectionCount }
