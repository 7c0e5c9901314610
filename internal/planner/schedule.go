package planner

import "time"

const (
	// MinSessionMinutes is the smallest gap, in working time or daily budget,
	// worth starting a session in.
	MinSessionMinutes = 15
	// LongBreakEvery makes every n-th session of a day end in a long break.
	LongBreakEvery = 4
)

// entry is the planner's private bookkeeping for one ranked task.
type entry struct {
	id         string
	difficulty Difficulty
	remaining  int
}

// Generate lays out the pending tasks over days consecutive days starting at
// start's calendar date. now is the reference for deadline urgency and is
// used once, before the first day is planned.
//
// tasks are never modified. The result holds exactly days schedules in
// chronological order; a day with nothing to do has no blocks.
func Generate(tasks []Task, prefs Preferences, start time.Time, days int, now time.Time) []DailySchedule {
	if days <= 0 {
		return nil
	}

	ranked := Rank(tasks, now)
	queue := make([]entry, len(ranked))
	for i, t := range ranked {
		queue[i] = entry{id: t.ID, difficulty: t.Difficulty, remaining: t.EstimatedMinutes}
	}

	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	out := make([]DailySchedule, 0, days)
	head := 0
	for i := 0; i < days; i++ {
		out = append(out, planDay(first.AddDate(0, 0, i), queue, &head, prefs))
	}
	return out
}

// planDay walks one working day. head is the index of the first queue entry
// that may still have work; it only moves forward and is shared across days.
func planDay(date time.Time, queue []entry, head *int, prefs Preferences) DailySchedule {
	day := DailySchedule{Date: date, Blocks: []Block{}}
	end := prefs.WorkingHours.End
	cursor := prefs.WorkingHours.Start
	sessions := 0

	for {
		for *head < len(queue) && queue[*head].remaining <= 0 {
			*head++
		}
		if *head >= len(queue) || cursor >= end || day.TotalMinutes >= prefs.DailyMinutes {
			break
		}

		untilEnd := int(end - cursor)
		budgetLeft := prefs.DailyMinutes - day.TotalMinutes
		if untilEnd < MinSessionMinutes || budgetLeft < MinSessionMinutes {
			break
		}

		e := pick(queue, *head, prefs.inPeak(cursor))
		session := min(e.remaining, prefs.PomodoroMinutes, untilEnd, budgetLeft)
		if session <= 0 {
			break
		}

		day.Blocks = append(day.Blocks, Block{
			TaskID: e.id,
			Date:   date,
			Start:  cursor,
			End:    cursor + Clock(session),
		})
		cursor += Clock(session)
		day.TotalMinutes += session
		e.remaining -= session
		sessions++

		kind, length := ShortBreak, prefs.ShortBreakMinutes
		if sessions%LongBreakEvery == 0 {
			kind, length = LongBreak, prefs.LongBreakMinutes
		}
		if length > 0 && cursor+Clock(length) <= end && day.TotalMinutes+length <= prefs.DailyMinutes {
			day.Blocks = append(day.Blocks, Block{
				Date:  date,
				Start: cursor,
				End:   cursor + Clock(length),
				Break: kind,
			})
			cursor += Clock(length)
			day.BreakMinutes += length
		}
	}
	return day
}

// pick returns the first entry from head onwards that should be worked on
// now. Hard tasks are passed over outside peak hours as long as some later
// entry still has work; the last entry with work is always taken.
func pick(queue []entry, head int, peak bool) *entry {
	var last *entry
	for i := head; i < len(queue); i++ {
		e := &queue[i]
		if e.remaining <= 0 {
			continue
		}
		last = e
		if e.difficulty == DifficultyHard && !peak && hasWorkAfter(queue, i) {
			continue
		}
		return e
	}
	return last
}

func hasWorkAfter(queue []entry, i int) bool {
	for _, e := range queue[i+1:] {
		if e.remaining > 0 {
			return true
		}
	}
	return false
}
