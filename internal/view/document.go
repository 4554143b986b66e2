package view

import (
	"slices"
	"strings"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// DocumentKind names a paper form the client can pre-fill.
type DocumentKind string

const DocumentMoveOut DocumentKind = "tenshutsu"

// DocumentFor reports which form belongs to a procedure. Only the
// moving-out notification has a template so far.
func DocumentFor(p domain.Procedure) (DocumentKind, bool) {
	if p.ID == string(DocumentMoveOut) || strings.Contains(p.Title, "転出届") {
		return DocumentMoveOut, true
	}
	return "", false
}

// FormField is one entry of a pre-filled form. Filled values were taken
// from the session; the others are placeholders written by hand. Hint
// follows a filled value that still needs completing.
type FormField struct {
	Label  string
	Value  string
	Hint   string
	Filled bool
}

type FormSection struct {
	Title  string
	Fields []FormField
}

// DocumentForm is a printable preview: the filled header fields, the parts
// left blank and the notes shown under the form.
type DocumentForm struct {
	Kind           DocumentKind
	ProcedureTitle string
	Title          string
	Legal          string
	Sections       []FormSection
	Notes          []string
}

var moveOutNotes = []string{
	"転出届は引越し日の14日前から届出できます。",
	"届出には本人確認書類（運転免許証、マイナンバーカード等）が必要です。",
	"印鑑登録をしている方は、転出届と同時に印鑑登録が廃止されます。",
}

func filled(label, value, hint string) FormField {
	if strings.TrimSpace(value) == "" {
		return FormField{Label: label, Value: hint}
	}
	return FormField{Label: label, Value: value, Filled: true}
}

func blank(label, placeholder string) FormField {
	return FormField{Label: label, Value: placeholder}
}

func mover(n string, relation string) []FormField {
	return []FormField{
		blank("異動者"+n+" 氏名", "（氏名を記入）"),
		blank("異動者"+n+" 生年月日", "（年/月/日）"),
		blank("異動者"+n+" 性別", "男 / 女"),
		blank("異動者"+n+" 続柄", relation),
		blank("異動者"+n+" マイナンバーカード", "有 / 無"),
		blank("異動者"+n+" 国保加入", "有 / 無"),
	}
}

// BuildMoveOutForm pre-fills the 転出届 from the session: the office of the
// current city, both addresses up to the city, the move date and today's
// date as the filing date. The procedure's own notes follow the standard
// ones.
func BuildMoveOutForm(s domain.Session, d domain.ProcedureDetail, now time.Time) DocumentForm {
	today := JapaneseDate(now)

	office := filled("届出先", s.MoveFrom.City, "（市区町村を記入）")
	if office.Filled {
		office.Value += " 長 殿"
	}
	newAddr := filled("転出先住所", s.MoveTo.Prefecture+s.MoveTo.City, "（住所を記入）")
	curAddr := filled("現住所（転出元）", s.MoveFrom.Prefecture+s.MoveFrom.City, "（住所を記入）")
	for _, f := range []*FormField{&newAddr, &curAddr} {
		if f.Filled {
			f.Hint = "（以降の住所を記入）"
		}
	}
	moveDate := FormField{Label: "転出予定日", Value: "（年/月/日）"}
	if s.MoveDate != "" {
		moveDate = filled("転出予定日", FormatDate(s.MoveDate), "（年/月/日）")
	}

	movers := FormSection{Title: "届出人（異動する方）", Fields: []FormField{
		blank("世帯主氏名", "（氏名を記入）"),
		blank("届出人との続柄", "本人 / 世帯主 / その他"),
	}}
	movers.Fields = append(movers.Fields, mover("①", "本人")...)
	movers.Fields = append(movers.Fields, mover("②", "（続柄を記入）")...)
	movers.Fields = append(movers.Fields, mover("③", "（続柄を記入）")...)

	notes := slices.Clone(moveOutNotes)
	for _, n := range d.Notes {
		if !slices.Contains(notes, n) {
			notes = append(notes, n)
		}
	}

	return DocumentForm{
		Kind:           DocumentMoveOut,
		ProcedureTitle: d.Title,
		Title:          "転出届",
		Legal:          "住民基本台帳法第24条の規定により届出します",
		Sections: []FormSection{
			{Fields: []FormField{
				filled("届出日", today, ""),
				office,
				newAddr,
				curAddr,
				moveDate,
				filled("転出届出日", today, ""),
			}},
			movers,
			{Title: "届出人連絡先", Fields: []FormField{
				blank("届出人氏名", "（氏名を記入）"),
				blank("電話番号", "（電話番号を記入）"),
				blank("届出人印", "印（本人が自署する場合は押印不要）"),
			}},
		},
		Notes: notes,
	}
}

// FilledCount is the number of fields taken from the session.
func (f DocumentForm) FilledCount() int {
	n := 0
	for _, s := range f.Sections {
		for _, field := range s.Fields {
			if field.Filled {
				n++
			}
		}
	}
	return n
}
