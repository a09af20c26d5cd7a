package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	t.Run("opposites pair up", func(t *testing.T) {
		assert.Equal(t, South, North.Opposite())
		assert.Equal(t, North, South.Opposite())
		assert.Equal(t, West, East.Opposite())
		assert.Equal(t, East, West.Opposite())
	})

	t.Run("deltas follow north-is-plus-y", func(t *testing.T) {
		dx, dy := North.Delta()
		assert.Equal(t, [2]int{0, 1}, [2]int{dx, dy})
		dx, dy = South.Delta()
		assert.Equal(t, [2]int{0, -1}, [2]int{dx, dy})
		dx, dy = East.Delta()
		assert.Equal(t, [2]int{1, 0}, [2]int{dx, dy})
		dx, dy = West.Delta()
		assert.Equal(t, [2]int{-1, 0}, [2]int{dx, dy})
	})

	t.Run("step and opposite cancel out", func(t *testing.T) {
		pos := Position{X: 3, Y: -2}
		for _, d := range Directions {
			assert.Equal(t, pos, pos.Step(d).Step(d.Opposite()))
		}
	})

	t.Run("names round-trip", func(t *testing.T) {
		for _, d := range Directions {
			parsed, err := ParseDirection(d.String())
			assert.NoError(t, err)
			assert.Equal(t, d, parsed)
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		_, err := ParseDirection("up")
		assert.Error(t, err)
	})
}

func TestRelative(t *testing.T) {
	t.Run("names round-trip", func(t *testing.T) {
		for _, r := range []Relative{Left, Front, Right, Back} {
			parsed, err := ParseRelative(r.String())
			assert.NoError(t, err)
			assert.Equal(t, r, parsed)
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		_, err := ParseRelative("forward")
		assert.Error(t, err)
	})
}

func TestCompassMapping(t *testing.T) {
	cases := []struct {
		heading Direction
		rel     Relative
		want    Direction
	}{
		{North, Front, North},
		{North, Right, East},
		{North, Back, South},
		{North, Left, West},
		{East, Front, East},
		{East, Right, South},
		{East, Back, West},
		{East, Left, North},
		{South, Front, South},
		{South, Right, West},
		{West, Front, West},
		{West, Right, North},
		{West, Left, South},
	}

	for _, c := range cases {
		t.Run(c.heading.String()+" "+c.rel.String(), func(t *testing.T) {
			assert.Equal(t, c.want, CompassMapping(c.heading, c.rel))
		})
	}
}
