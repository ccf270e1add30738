package projector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSidesAlternateByIndex(t *testing.T) {
	config := LabelConfig{TextOffset: 18, ConnectorGap: 7}

	inside := placeLabel("STAGE SEP", 0, 100, 100, -math.Pi/2, 6, config)
	outside := placeLabel("MAX-Q", 1, 100, 100, -math.Pi/2, 6, config)

	assert.False(t, inside.Outside)
	assert.Equal(t, BaselineBeforeEdge, inside.Baseline)
	assert.InDelta(t, 118, inside.Y, 1e-9)

	assert.True(t, outside.Outside)
	assert.Equal(t, BaselineAfterEdge, outside.Baseline)
	assert.InDelta(t, 100, outside.X, 1e-9)
	assert.InDelta(t, 82, outside.Y, 1e-9)
	assert.InDelta(t, 0, outside.RotationDegrees, 1e-9)
}

func TestLabelSplitsNameIntoLines(t *testing.T) {
	label := placeLabel("LANDING  BURN", 0, 0, 0, 0, 6, LabelConfig{})
	assert.Equal(t, []string{"LANDING", "BURN"}, label.Lines)
	assert.InDelta(t, 90, label.RotationDegrees, 1e-9)
}

func TestConnectorOnlyWhenLongEnough(t *testing.T) {
	withConnector := placeLabel("A", 1, 100, 100, 0, 6, LabelConfig{TextOffset: 18, ConnectorGap: 7})
	require.NotNil(t, withConnector.Connector)
	assert.InDelta(t, 106, withConnector.Connector.X1, 1e-9)
	assert.InDelta(t, 111, withConnector.Connector.X2, 1e-9)

	flush := placeLabel("A", 1, 100, 100, 0, 6, LabelConfig{})
	assert.Nil(t, flush.Connector)
	assert.InDelta(t, 106, flush.X, 1e-9)
}

func TestNewGeometryExposesConfiguredArc(t *testing.T) {
	geometry := NewGeometry(1920, 200, 64)

	assert.Equal(t, 960.0, geometry.Radius)
	assert.Equal(t, 960.0, geometry.CenterX)
	assert.Equal(t, 200.0, geometry.ViewHeight)
	assert.InDelta(t, 200+960*math.Cos(32*math.Pi/180), geometry.CenterY, 1e-9)

	fallback := NewGeometry(0, 0, 0)
	assert.Equal(t, geometry, fallback)
}
