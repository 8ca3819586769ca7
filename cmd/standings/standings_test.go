package standings

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/model"
)

func TestWriteDrivers(t *testing.T) {
	var buf bytes.Buffer
	err := writeDrivers(&buf, []model.DriverStanding{
		{
			Position:     "1",
			Points:       "437",
			Wins:         "9",
			Driver:       model.Driver{GivenName: "Max", FamilyName: "Verstappen", Nationality: "Dutch"},
			Constructors: []model.Constructor{{ConstructorID: "red_bull", Name: "Red Bull"}},
		},
		{
			Driver: model.Driver{GivenName: "Lando", FamilyName: "Norris", Nationality: "British"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "🇳🇱 Max Verstappen")
	assert.Contains(t, lines[1], "Red Bull")
	assert.Contains(t, lines[1], "437")
	assert.True(t, strings.HasPrefix(lines[2], "?"))
	assert.Contains(t, lines[2], "🇬🇧 Lando Norris")
}

func TestWriteConstructors(t *testing.T) {
	var buf bytes.Buffer
	err := writeConstructors(&buf, []model.ConstructorStanding{
		{
			Position:    "1",
			Points:      "860.5",
			Wins:        "21",
			Constructor: model.Constructor{ConstructorID: "red_bull", Name: "Red Bull"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "#1E41FF")
	assert.Contains(t, buf.String(), "860.5")
}
