package effects

import "github.com/dshills/keyburst/internal/host"

// TriggerKind discriminates the editor events that can spawn effects.
type TriggerKind uint8

const (
	TriggerTyping TriggerKind = iota
	TriggerDelete
	TriggerSave
	TriggerSelection
	TriggerBonus
)

// String returns the string representation of the trigger kind.
func (k TriggerKind) String() string {
	switch k {
	case TriggerTyping:
		return "typing"
	case TriggerDelete:
		return "delete"
	case TriggerSave:
		return "save"
	case TriggerSelection:
		return "selection"
	case TriggerBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// Trigger is one editor event presented to Decide.
type Trigger struct {
	Kind TriggerKind

	// Offset is the anchor: the just-typed offset, the deletion start, the
	// cursor at save time, or the bonus anchor.
	Offset int

	// Rune is the typed character.
	Rune rune

	// Deleted is the removed text.
	Deleted []rune

	// Span is the selection range.
	Span host.Range

	// BonusCount is the streak length that earned the bonus.
	BonusCount int
}

// Typing builds the trigger for one typed character.
func Typing(offset int, r rune) Trigger {
	return Trigger{Kind: TriggerTyping, Offset: offset, Rune: r}
}

// Deletion builds the trigger for removed text starting at offset.
func Deletion(offset int, deleted string) Trigger {
	return Trigger{Kind: TriggerDelete, Offset: offset, Deleted: []rune(deleted)}
}

// Save builds the trigger for a buffer save, anchored at the cursor.
func Save(offset int) Trigger {
	return Trigger{Kind: TriggerSave, Offset: offset}
}

// Selection builds the trigger for a selection activation or re-fire.
func Selection(span host.Range) Trigger {
	return Trigger{Kind: TriggerSelection, Span: span, Offset: span.Start}
}

// BonusTrigger builds the trigger for a combo bonus, anchored at the edit
// that earned it.
func BonusTrigger(count, offset int) Trigger {
	return Trigger{Kind: TriggerBonus, Offset: offset, BonusCount: count}
}

// State is the mutable context Decide reads but never writes.
type State struct {
	// Combo is the current consecutive-action count.
	Combo int

	// Seq is the session's monotonically increasing action number, used
	// for the round-robin trail palette and demo-mode moduli.
	Seq int
}
