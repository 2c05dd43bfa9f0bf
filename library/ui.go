package library

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Color palette shared by the menu and the book renderer.
var (
	Header  = color.New(color.FgHiMagenta, color.Bold)
	Info    = color.New(color.FgCyan)
	Success = color.New(color.FgGreen)
	Warn    = color.New(color.FgYellow)
	Fail    = color.New(color.FgRed)
	Bold    = color.New(color.Bold)
)

// ClearScreen wipes the terminal. Windows terminals get the cls command,
// everything else an ANSI escape.
func ClearScreen() {
	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd", "/c", "cls")
		cmd.Stdout = os.Stdout
		cmd.Run()
		return
	}
	fmt.Print("\033[2J\033[H")
}

// PrintHeader clears the screen and prints a section title.
func PrintHeader(title string) {
	ClearScreen()
	fmt.Println()
	Header.Printf("📚 %s 📚\n", title)
	Warn.Println(strings.Repeat("=", len(title)+6))
}

// Pause blocks until the user presses Enter.
func Pause(sc *bufio.Scanner) {
	Warn.Print("\nPress Enter to continue...")
	sc.Scan()
}

// PrintBook renders one record. Detailed adds the summary line; the compact
// form is used for catalog listings.
func PrintBook(b *Book, detailed bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf(" %s %-5d %s %s\n", Bold.Sprint("ID:"), b.ID, Bold.Sprint("Title:"), Info.Sprint(b.Title))
	fmt.Printf("          %s %s\n", Bold.Sprint("Author:"), b.Author)

	statusColor := Success
	if !b.Available() {
		statusColor = Warn
	}
	fmt.Printf("          %s %s\n", Bold.Sprint("Status:"), statusColor.Sprint(b.Status))

	if b.Status == StatusCheckedOut {
		borrower := "N/A"
		if b.Borrower != nil {
			borrower = *b.Borrower
		}
		fmt.Printf("          %s %s\n", Bold.Sprint("Borrower:"), borrower)

		due := "N/A"
		if b.DueDate != nil {
			due = *b.DueDate
			if Overdue(b, time.Now()) {
				due += " (OVERDUE)"
			}
		}
		fmt.Printf("          %s %s\n", Bold.Sprint("Due Date:"), Fail.Sprint(due))
	}
	if detailed && b.Summary != "" {
		fmt.Printf("          %s %s\n", Bold.Sprint("Summary:"), b.Summary)
	}
	fmt.Println(strings.Repeat("-", 60))
}

// Overdue reports whether a checked-out book's due date has passed.
func Overdue(b *Book, now time.Time) bool {
	if b.DueDate == nil {
		return false
	}
	due, err := time.Parse("2006-01-02", *b.DueDate)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}
