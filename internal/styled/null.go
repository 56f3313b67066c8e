package styled

import "github.com/fatih/color"

// nullColor dims NULL markers. fatih/color disables itself when the output
// is not a terminal.
var nullColor = color.RGB(128, 128, 128)

// Null returns the marker printed in place of SQL NULL.
func Null() string {
	return nullColor.Sprint("NULL")
}
