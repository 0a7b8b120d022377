package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidCell      = errors.New("invalid cell address")
	ErrInvalidColumn    = errors.New("invalid column")
	ErrColumnOutOfRange = errors.New("column out of range")
)

// CellAddress is an A1-style reference without a sheet name.
type CellAddress struct {
	Column string
	Row    int
}

// ParseCellAddress parses references like "B6" or "aa12". The column is
// normalised to upper case.
func ParseCellAddress(s string) (CellAddress, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return CellAddress{}, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return CellAddress{}, fmt.Errorf("%w: %q", ErrInvalidCell, s)
		}
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return CellAddress{}, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	return CellAddress{Column: strings.ToUpper(s[:i]), Row: row}, nil
}

// MustParseCellAddress is ParseCellAddress for literals known to be valid.
func MustParseCellAddress(s string) CellAddress {
	c, err := ParseCellAddress(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CellAddress) String() string {
	return fmt.Sprintf("%s%d", c.Column, c.Row)
}

func (c CellAddress) IsZero() bool {
	return c.Column == "" && c.Row == 0
}

func (c CellAddress) Validate() error {
	if _, err := ColumnToNumber(c.Column); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCell, c.String())
	}
	if c.Row < 1 {
		return fmt.Errorf("%w: %q", ErrInvalidCell, c.String())
	}
	return nil
}

// ColumnToNumber decodes spreadsheet column letters as bijective base-26:
// A=1, Z=26, AA=27. There is no zero digit.
func ColumnToNumber(col string) (int, error) {
	if col == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidColumn)
	}
	n := 0
	for i := 0; i < len(col); i++ {
		ch := col[i]
		if !isLetter(ch) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, col)
		}
		if ch >= 'a' {
			ch -= 'a' - 'A'
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n, nil
}

// NumberToColumn encodes n >= 1 as column letters. Each step subtracts one
// before taking the remainder, which is what rolls Z over to AA.
func NumberToColumn(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("%w: %d", ErrColumnOutOfRange, n)
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// Offset shifts the address by cols columns and rows rows.
func (c CellAddress) Offset(cols, rows int) (CellAddress, error) {
	n, err := ColumnToNumber(c.Column)
	if err != nil {
		return CellAddress{}, err
	}
	col, err := NumberToColumn(n + cols)
	if err != nil {
		return CellAddress{}, err
	}
	if c.Row+rows < 1 {
		return CellAddress{}, fmt.Errorf("%w: row %d", ErrInvalidCell, c.Row+rows)
	}
	return CellAddress{Column: col, Row: c.Row + rows}, nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
