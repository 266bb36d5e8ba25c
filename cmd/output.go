package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/placementcell/careerbot/internal/chatbot"
	"github.com/placementcell/careerbot/internal/session"
)

var (
	replyStyle = color.New(color.FgCyan)
	hintStyle  = color.New(color.FgYellow)
	userStyle  = color.New(color.FgGreen, color.OpBold)
)

func printResponse(w io.Writer, resp chatbot.Response) {
	fmt.Fprintln(w, replyStyle.Render(resp.Content))

	if len(resp.Suggestions) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, hintStyle.Render("You might also ask:"))
	for _, s := range resp.Suggestions {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printSuggestions(w io.Writer, suggestions []string) {
	for i, s := range suggestions {
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
}

func printTranscript(w io.Writer, conv session.Conversation) {
	for _, msg := range conv.Messages {
		switch msg.Role {
		case session.RoleUser:
			fmt.Fprintf(w, "%s %s\n", userStyle.Render("you>"), msg.Content)
		default:
			fmt.Fprintf(w, "%s [%s]\n%s\n", replyStyle.Render("bot>"), msg.Topic, msg.Content)
		}
	}
}

// renderTopics prints the rules in the order they are tried.
func renderTopics(w io.Writer, rules []chatbot.Status) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Rule", "Kind", "Keywords", "Variants"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, rule := range rules {
		table.Append([]string{
			strconv.Itoa(i + 1),
			rule.Name,
			rule.Kind,
			strconv.Itoa(len(rule.Keywords)),
			strings.Join(rule.Variants, ", "),
		})
	}
	table.Render()
}
