package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "Name, Vorname,E-Mail\n" +
		"Schmidt,Anna,anna@tu-bs.de\n" +
		",,\n" +
		"Meier,Max,max@tu-bs.de,extra\n" +
		"Weber,Lisa\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Schmidt", rows[0].Row["Name"])
	assert.Equal(t, "Anna", rows[0].Row["Vorname"])
	assert.Equal(t, "anna@tu-bs.de", rows[0].Row["E-Mail"])

	// empty row skipped but the index keeps counting
	assert.Equal(t, 3, rows[1].Index)
	assert.Equal(t, "Meier", rows[1].Row["Name"])

	// short row leaves missing columns empty
	assert.Equal(t, 4, rows[2].Index)
	assert.Equal(t, "", rows[2].Row["E-Mail"])
}

func TestReadCSVStripsBOM(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("\uFEFFName,Vorname\nSchmidt,Anna\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Schmidt", rows[0].Row["Name"])
}

func TestReadCSVEmptyFile(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}
