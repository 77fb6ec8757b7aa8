package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

const sampleXML = `<?xml version="1.0"?>
<xmlDict>
   <xmldumpDictEntry name="FCAL" tag="10" num="1"/>
   <dictEntry name="BCAL" tag="0x14" num="2" type="int32">
      <description format="N(I,F)">barrel calorimeter</description>
   </dictEntry>
   <dictEntry name="Scalers" tag="30"/>
   <dictEntry name="NoTag" num="3"/>
   <dictEntry name="BadNum" tag="40" num="abc"/>
   <dictEntry name="FCAL" tag="11" num="1"/>
   <dictEntry name="Dup" tag="10" num="1"/>
   <other name="Ignored" tag="50" num="1"/>
   <bank name="TOF" tag="60" num="0">
      <leaf name="ADC" tag="61" num="1"/>
      <bank name="Planes" tag="62" num="2">
         <leaf name="TDC" tag="63" num="3"/>
      </bank>
   </bank>
</xmlDict>
`

func TestNew(t *testing.T) {
	d, err := New(
		Entry{Name: "a", Tag: 1, Num: 1},
		Entry{Name: "b", Tag: 1, Num: 2},
	)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	_, err = New(Entry{Name: "", Tag: 1})
	require.ErrorIs(t, err, errs.ErrInvalidEntryName)

	_, err = New(Entry{Name: "a", Tag: 1, Num: 1}, Entry{Name: "a", Tag: 2, Num: 1})
	require.ErrorIs(t, err, errs.ErrDuplicateEntry)

	_, err = New(Entry{Name: "a", Tag: 1, Num: 1}, Entry{Name: "b", Tag: 1, Num: 1})
	require.ErrorIs(t, err, errs.ErrDuplicateEntry)
}

func TestDictionary_Add_TagOnly(t *testing.T) {
	d, err := New(Entry{Name: "raw", Tag: 5, TagOnly: true})
	require.NoError(t, err)

	require.ErrorIs(t, d.Add(Entry{Name: "raw2", Tag: 5, TagOnly: true}), errs.ErrDuplicateEntry)
	require.NoError(t, d.Add(Entry{Name: "exact", Tag: 5, Num: 9}))

	name, ok := d.Name(5, 9)
	require.True(t, ok)
	require.Equal(t, "exact", name)

	name, ok = d.Name(5, 200)
	require.True(t, ok)
	require.Equal(t, "raw", name)

	require.NoError(t, d.Add(Entry{Name: "late", Tag: 6}))
	require.ErrorIs(t, d.Add(Entry{Name: "late-tag", Tag: 6, TagOnly: true}), errs.ErrDuplicateEntry)
}

func TestDictionary_TagNum(t *testing.T) {
	d, err := New(Entry{Name: "HallD.FCAL", Tag: 100, Num: 7})
	require.NoError(t, err)

	tag, num, err := d.TagNum("HallD.FCAL")
	require.NoError(t, err)
	require.Equal(t, uint16(100), tag)
	require.Equal(t, uint8(7), num)

	_, _, err = d.TagNum("HallD.BCAL")
	require.ErrorIs(t, err, errs.ErrNoDictionaryEntry)

	require.Equal(t, NoName, d.NameOrDefault(1, 1))
	require.Equal(t, "HallD.FCAL", d.NameOrDefault(100, 7))
}

func TestParseXML(t *testing.T) {
	d, err := ParseXML([]byte(sampleXML))
	require.NoError(t, err)

	t.Run("flat entries", func(t *testing.T) {
		tag, num, err := d.TagNum("FCAL")
		require.NoError(t, err)
		require.Equal(t, uint16(10), tag)
		require.Equal(t, uint8(1), num)

		e, ok := d.Entry("BCAL")
		require.True(t, ok)
		require.Equal(t, uint16(0x14), e.Tag)
		require.Equal(t, "N(I,F)", e.Format)
		require.Equal(t, "barrel calorimeter", e.Description)
		dt, ok := e.DataType()
		require.True(t, ok)
		require.Equal(t, format.Int32, dt)
	})

	t.Run("tag only", func(t *testing.T) {
		e, ok := d.Entry("Scalers")
		require.True(t, ok)
		require.True(t, e.TagOnly)
		require.Equal(t, "Scalers", d.NameOrDefault(30, 77))
	})

	t.Run("hierarchical", func(t *testing.T) {
		for name, want := range map[string][2]int{
			"TOF":            {60, 0},
			"TOF.ADC":        {61, 1},
			"TOF.Planes":     {62, 2},
			"TOF.Planes.TDC": {63, 3},
		} {
			tag, num, err := d.TagNum(name)
			require.NoError(t, err, name)
			require.Equal(t, uint16(want[0]), tag, name)
			require.Equal(t, uint8(want[1]), num, name)
		}
	})

	t.Run("skipped", func(t *testing.T) {
		require.ElementsMatch(t, []string{"NoTag", "BadNum", "FCAL", "Dup"}, d.Skipped())
		_, ok := d.Entry("Ignored")
		require.False(t, ok)
		require.Equal(t, 7, d.Len())
	})

	t.Run("source preserved", func(t *testing.T) {
		out, err := d.XML()
		require.NoError(t, err)
		require.Equal(t, sampleXML, out)
	})
}

func TestParseXML_Errors(t *testing.T) {
	_, err := ParseXML([]byte("<notADict/>"))
	require.ErrorIs(t, err, errs.ErrFormat)

	_, err = ParseXML([]byte("<xmlDict><dictEntry"))
	require.ErrorIs(t, err, errs.ErrFormat)

	_, err = ParseXML([]byte("<xmlDict/>"), WithDelimiter(""))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestParseXML_Nested(t *testing.T) {
	d, err := ParseXML([]byte(`<doc><xmlDict><dictEntry name="x" tag="1" num="1"/></xmlDict></doc>`))
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())
}

func TestWithDelimiter(t *testing.T) {
	d, err := ParseXML([]byte(`<xmlDict><bank name="A" tag="1" num="1"><leaf name="B" tag="2" num="2"/></bank></xmlDict>`),
		WithDelimiter("/"))
	require.NoError(t, err)

	_, _, err = d.TagNum("A/B")
	require.NoError(t, err)
	require.Equal(t, "/", d.Delimiter())
}

func TestDictionary_XML(t *testing.T) {
	d, err := New(
		Entry{Name: "a", Tag: 1, Num: 2},
		Entry{Name: "b", Tag: 3, TagOnly: true},
		Entry{Name: "c", Tag: 4, Num: 0, Type: "float32", Format: "F", Description: "floats"},
	)
	require.NoError(t, err)

	out, err := d.XML()
	require.NoError(t, err)
	require.Contains(t, out, `<dictEntry name="a" tag="1" num="2"></dictEntry>`)
	require.Contains(t, out, `<dictEntry name="b" tag="3"></dictEntry>`)

	back, err := ParseXML([]byte(out))
	require.NoError(t, err)
	require.Empty(t, back.Skipped())
	require.Equal(t, d.Entries(), back.Entries())
}

func TestParseYAML(t *testing.T) {
	src := `
entries:
  - name: FCAL
    tag: 10
    num: 1
  - name: Scalers
    tag: 0x1e
  - name: TOF
    tag: 60
    num: 0
    children:
      - name: ADC
        tag: 61
        num: 1
  - name: Bad
    tag: 70000
    num: 1
  - name: NoNumButType
    tag: 80
    type: int32
`
	d, err := ParseYAML([]byte(src))
	require.NoError(t, err)
	require.Equal(t, 4, d.Len())
	require.ElementsMatch(t, []string{"Bad", "NoNumButType"}, d.Skipped())

	tag, num, err := d.TagNum("TOF.ADC")
	require.NoError(t, err)
	require.Equal(t, uint16(61), tag)
	require.Equal(t, uint8(1), num)
	require.Equal(t, "Scalers", d.NameOrDefault(30, 5))

	out, err := d.YAML()
	require.NoError(t, err)

	back, err := ParseYAML(out)
	require.NoError(t, err)
	require.Equal(t, d.Entries(), back.Entries())

	_, err = ParseYAML([]byte("entries: [: bad"))
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	xmlPath := filepath.Join(dir, "dict.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(sampleXML), 0o600))
	d, err := LoadFile(xmlPath)
	require.NoError(t, err)
	require.Equal(t, 7, d.Len())

	yamlPath := filepath.Join(dir, "dict.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("entries:\n  - {name: a, tag: 1, num: 1}\n"), 0o600))
	d, err = LoadFile(yamlPath)
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
}

func TestDictionary_String(t *testing.T) {
	d, err := New(Entry{Name: "b", Tag: 2, Num: 1}, Entry{Name: "a", Tag: 1, TagOnly: true})
	require.NoError(t, err)

	s := d.String()
	require.Contains(t, s, "-- Dictionary --")
	require.Less(t, strings.Index(s, "a "), strings.Index(s, "b "))
}
