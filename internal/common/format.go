package common

import (
	"fmt"
	"strings"
)

// DefaultWidth is the report width used by all the vault binaries.
const DefaultWidth = 80

func separator(width int) string {
	return strings.Repeat("=", width)
}

// PrintHeader opens a report section with its title between rules.
func PrintHeader(title string, width int) {
	fmt.Println("\n" + separator(width))
	fmt.Println(title)
	fmt.Println(separator(width))
}

// PrintFooter closes a report with a status line between rules.
func PrintFooter(message string, width int) {
	fmt.Println("\n" + separator(width))
	fmt.Println(message)
	fmt.Println(separator(width) + "\n")
}

// PrintBoxSeparator divides sub-sections inside a box-drawn report.
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix is the box-drawing prefix for a list item; the last item
// closes the box.
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix is the prefix for detail lines under a list item.
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}

// FormatTxHash shortens a transaction hash for list display. Full hashes
// stay in the journal.
func FormatTxHash(hash string) string {
	if hash == "" {
		return "none"
	}
	if len(hash) > 12 {
		return hash[:12] + "..."
	}
	return hash
}
