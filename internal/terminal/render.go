package terminal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/review"

	"github.com/google/uuid"
)

func (u *UI) renderItem(snap review.Snapshot) {
	item := snap.Item
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("[" + strconv.Itoa(snap.Position+1) + "/" + strconv.Itoa(snap.Total) + "] " + item.Prompt + "\n")
	if item.Content != "" {
		for _, line := range strings.Split(strings.TrimRight(item.Content, "\n"), "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
	for i, o := range item.Options {
		b.WriteString("   " + strconv.Itoa(i+1) + ") " + o.Text + "\n")
	}
	u.printf("%s", b.String())
}

// renderFeedback は正解に ○、選んだ不正解に × を付けて選択肢を並べ直します。
func (u *UI) renderFeedback(snap review.Snapshot) {
	item := snap.Item
	selected := -1
	if snap.SelectedIndex != nil {
		selected = *snap.SelectedIndex
	}

	var b strings.Builder
	if snap.LastAnswer != nil && snap.LastAnswer.IsCorrect {
		b.WriteString("正解!\n")
	} else {
		b.WriteString("不正解\n")
	}
	for i, o := range item.Options {
		mark := " "
		switch {
		case i == item.CorrectOptionIndex:
			mark = "○"
		case i == selected:
			mark = "×"
		}
		line := " " + mark + " " + strconv.Itoa(i+1) + ") " + o.Text
		if i == selected {
			line += "  <- あなたの回答"
		}
		b.WriteString(line + "\n")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	schedule := snap.Schedule
	if schedule == nil {
		if resp, ok := u.delivered[item.ItemID]; ok {
			schedule = &resp
		}
	}
	delete(u.delivered, item.ItemID)
	if schedule != nil {
		b.WriteString(scheduleLine(*schedule))
		u.awaiting = nil
	} else {
		// 送信完了時に Scheduled が追記する
		u.awaiting = item
	}
	fmt.Fprint(u.out, b.String())
}

// Scheduled は送信が完了した回答の次回予定を表示します。outbox の配送 goroutine から呼ばれます。
// 回答結果を表示済みならその場で追記し、まだなら次の表示に含めます。
func (u *UI) Scheduled(itemID uuid.UUID, resp model.SubmitReviewResponse) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.awaiting != nil && u.awaiting.ItemID == itemID {
		fmt.Fprint(u.out, "\n"+u.awaiting.Prompt+" の"+scheduleLine(resp))
		u.awaiting = nil
		return
	}
	u.delivered[itemID] = resp
}

func scheduleLine(resp model.SubmitReviewResponse) string {
	return "次回: " + resp.NextReviewAt.Local().Format(time.DateOnly) +
		" (" + strconv.Itoa(resp.IntervalDays) + " 日後)\n"
}
