package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launcharc/internal/core/colorfade"
	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
)

func TestComposeIsDeterministic(t *testing.T) {
	events := model.DefaultEvents()
	config := projector.DefaultConfig()
	geometry := projector.NewGeometry(1920, 200, 64)

	first := Compose(-42, events, config, colorfade.DefaultTransition(), geometry)
	second := Compose(-42, events, config, colorfade.DefaultTransition(), geometry)
	assert.Equal(t, first, second)
}

func TestComposeKeepsOriginalIndexes(t *testing.T) {
	config := projector.DefaultConfig()
	config.MissionDurationSeconds = 100
	config.AngularSpan = math.Pi
	events := []model.MissionEvent{
		{TimestampSeconds: 80, Name: "FAR"},
		{TimestampSeconds: 10, Name: "NEAR"},
	}

	nodes := Compose(0, events, config, colorfade.DefaultTransition(), projector.NewGeometry(1920, 200, 64))

	require.Len(t, nodes, 1)
	assert.Equal(t, 1, nodes[0].Index)
	assert.True(t, nodes[0].Label.Outside)
}

func TestComposeWithDegenerateDuration(t *testing.T) {
	config := projector.DefaultConfig()
	config.MissionDurationSeconds = 0

	assert.Empty(t, Compose(0, model.DefaultEvents(), config, colorfade.DefaultTransition(), projector.NewGeometry(1920, 200, 64)))
}
