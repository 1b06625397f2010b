package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
)

type formMode int

const (
	formCreate formMode = iota
	formEdit
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCount
)

// itemForm edits the title and description of a new or existing item.
type itemForm struct {
	mode     formMode
	original api.Item
	inputs   [fieldCount]textinput.Model
	focus    int
	err      string
}

func newCreateForm() itemForm {
	f := itemForm{mode: formCreate}
	f.inputs = newInputs()
	f.inputs[fieldTitle].Focus()
	return f
}

func newEditForm(item api.Item) itemForm {
	f := itemForm{mode: formEdit, original: item}
	f.inputs = newInputs()
	f.inputs[fieldTitle].SetValue(item.Title)
	f.inputs[fieldDescription].SetValue(item.Description)
	f.inputs[fieldTitle].Focus()
	return f
}

func newInputs() [fieldCount]textinput.Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = api.MaxTitleLength
	title.Prompt = ""

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = api.MaxDescriptionLength
	desc.Prompt = ""

	return [fieldCount]textinput.Model{title, desc}
}

func (f *itemForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == f.focus {
			cmd = f.inputs[idx].Focus()
			continue
		}
		f.inputs[idx].Blur()
	}
	return cmd
}

func (f *itemForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f itemForm) title() string {
	return strings.TrimSpace(f.inputs[fieldTitle].Value())
}

func (f itemForm) description() string {
	return strings.TrimSpace(f.inputs[fieldDescription].Value())
}

// createDTO builds a validated create payload.
func (f itemForm) createDTO() (api.CreateItemDTO, error) {
	dto := api.CreateItemDTO{Title: f.title(), Description: f.description()}
	if err := dto.Validate(); err != nil {
		return api.CreateItemDTO{}, err
	}
	return dto, nil
}

// updateDTO builds a validated update payload. PUT replaces the item, so
// both fields are always sent, changed or not.
func (f itemForm) updateDTO() (api.UpdateItemDTO, error) {
	title, desc := f.title(), f.description()
	dto := api.UpdateItemDTO{Title: &title, Description: &desc}
	if err := dto.Validate(); err != nil {
		return api.UpdateItemDTO{}, err
	}
	return dto, nil
}

func (f itemForm) heading() string {
	if f.mode == formEdit {
		return fmt.Sprintf("Edit item #%d", f.original.ID)
	}
	return "New item"
}

func (f itemForm) view(styles Styles, width int) string {
	fieldWidth := max(width-6, 20)
	labels := [fieldCount]string{"Title", "Description"}
	limits := [fieldCount]int{api.MaxTitleLength, api.MaxDescriptionLength}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.heading()))
	b.WriteString("\n\n")
	for i := range f.inputs {
		input := f.inputs[i]
		input.Width = fieldWidth - 4
		count := fmt.Sprintf("%d/%d", utf8.RuneCountInString(input.Value()), limits[i])

		b.WriteString(styles.MutedText.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(count))
		b.WriteString("\n")
		style := styles.Field
		if i == f.focus {
			style = styles.FieldOn
		}
		b.WriteString(style.Width(fieldWidth).Render(input.View()))
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	return b.String()
}
