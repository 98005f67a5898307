package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCellBareStatus(t *testing.T) {
	for _, raw := range []string{"presente", "tarde", "falto", ""} {
		cell := DecodeCell(raw)
		assert.Equal(t, AttendanceStatus(raw), cell.Status)
		assert.Empty(t, cell.Comment)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []AttendanceCell{
		{Status: AttendanceAbsent, Date: "2024-03-11", Comment: "justificado por enfermedad"},
		{Status: AttendanceLate, Date: "2024-03-11", Comment: "llego 10:30: sin justificar"},
		{Status: AttendancePresent, Date: "2024-03-11", Comment: "a:b:c:d"},
	}
	for _, want := range cases {
		got := DecodeCell(want.Encode())
		require.Equal(t, want, got)
	}
}

func TestEncodeWithoutCommentIsBareStatus(t *testing.T) {
	cell := AttendanceCell{Status: AttendancePresent, Date: "2024-03-11"}
	assert.Equal(t, "presente", cell.Encode())
}

func TestWithStatusPreservesComment(t *testing.T) {
	cell := DecodeCell("comentario:falto:2024-03-11:salio temprano")
	updated := cell.WithStatus(AttendanceLate)
	decoded := DecodeCell(updated.Encode())
	assert.Equal(t, AttendanceLate, decoded.Status)
	assert.Equal(t, "salio temprano", decoded.Comment)
	assert.Equal(t, "2024-03-11", decoded.Date)
}

func TestWithoutCommentFallsBackToBareStatus(t *testing.T) {
	cell := DecodeCell("comentario:tarde:2024-03-11:trafico")
	assert.Equal(t, "tarde", cell.WithoutComment().Encode())
}

func TestAttendanceStatusValid(t *testing.T) {
	assert.True(t, AttendancePresent.Valid())
	assert.True(t, AttendanceLate.Valid())
	assert.True(t, AttendanceAbsent.Valid())
	assert.False(t, AttendanceUnset.Valid())
	assert.False(t, AttendanceStatus("ausente").Valid())
}
