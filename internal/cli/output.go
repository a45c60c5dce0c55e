package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Character:
		o.printCharacter(v)
	case CharacterList:
		o.printCharacterList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Character response type (matches API)
type Character struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Class     string    `json:"class"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CharacterList response type
type CharacterList struct {
	Characters []Character `json:"characters"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

func (o *Output) printCharacter(c Character) {
	fmt.Printf("Character: %s\n", c.Name)
	fmt.Printf("  ID:      %s\n", c.ID)
	fmt.Printf("  Class:   %s (level %d)\n", c.Class, c.Level)
	fmt.Printf("  Gender:  %s\n", c.Gender)
	fmt.Printf("  Created: %s\n", c.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printCharacterList(list CharacterList) {
	if len(list.Characters) == 0 {
		fmt.Println("No characters")
		return
	}

	fmt.Printf("%-38s %-24s %-8s %-8s %s\n", "ID", "NAME", "CLASS", "GENDER", "LEVEL")
	for _, c := range list.Characters {
		fmt.Printf("%-38s %-24s %-8s %-8s %d\n", c.ID, c.Name, c.Class, c.Gender, c.Level)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Players online: %d\n", h.Players)
}
