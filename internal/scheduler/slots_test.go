package scheduler

import (
	"testing"
	"time"

	"github.com/vmartins/studysync/internal/models"
)

// 2026-01-05 is a Monday; fixtures below lean on that.
var testLoc = time.FixedZone("BRT", -3*60*60)

func testWeekdays() map[string]time.Weekday {
	return map[string]time.Weekday{
		"segunda": time.Monday,
		"terça":   time.Tuesday,
		"quarta":  time.Wednesday,
		"quinta":  time.Thursday,
		"sexta":   time.Friday,
		"sábado":  time.Saturday,
		"domingo": time.Sunday,
	}
}

func at(day, hour, min int) time.Time {
	return time.Date(2026, 1, day, hour, min, 0, 0, testLoc)
}

func TestGenerate_RegularWeekTemplate(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"},
		{DayOfWeek: "quarta", StartTime: "14:00", EndTime: "16:00"},
	}

	// Monday 08:00, one week horizon: expect Monday 5th and Wednesday 7th.
	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 8, 0),
		HorizonDays: 7,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	if len(res.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(res.Slots))
	}
	if !res.Slots[0].Start.Equal(at(5, 9, 0)) || !res.Slots[0].End.Equal(at(5, 11, 0)) {
		t.Errorf("unexpected first slot: %v", res.Slots[0])
	}
	if !res.Slots[1].Start.Equal(at(7, 14, 0)) {
		t.Errorf("unexpected second slot: %v", res.Slots[1])
	}
	if res.ExceptionDays != 0 || res.ExceptionSlots != 0 {
		t.Errorf("expected no exception counts, got days=%d slots=%d", res.ExceptionDays, res.ExceptionSlots)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"},
		{StartTime: "10:00", EndTime: "12:00", ExceptionDate: "2026-01-07"},
	}
	opts := GenerateOptions{
		Now:         at(5, 8, 0),
		HorizonDays: 14,
		Weekdays:    testWeekdays(),
	}

	first, err := GenerateAvailableSlots(rows, opts)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := GenerateAvailableSlots(rows, opts)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first.Slots) != len(second.Slots) {
		t.Fatalf("slot count differs: %d vs %d", len(first.Slots), len(second.Slots))
	}
	for i := range first.Slots {
		if !first.Slots[i].Start.Equal(second.Slots[i].Start) || !first.Slots[i].End.Equal(second.Slots[i].End) {
			t.Errorf("slot %d differs between runs: %v vs %v", i, first.Slots[i], second.Slots[i])
		}
	}
	if first.ExceptionDays != second.ExceptionDays || first.ExceptionSlots != second.ExceptionSlots {
		t.Errorf("exception counts differ between runs")
	}
}

func TestGenerate_NoPastIntervals(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "segunda", StartTime: "08:00", EndTime: "09:00"},  // already over
		{DayOfWeek: "segunda", StartTime: "10:00", EndTime: "12:00"},  // in progress
		{DayOfWeek: "segunda", StartTime: "10:30", EndTime: "12:00"},  // exactly now
		{DayOfWeek: "segunda", StartTime: "14:00", EndTime: "16:00"},  // still ahead
	}

	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 10, 30),
		HorizonDays: 1,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	if len(res.Slots) != 1 {
		t.Fatalf("expected only the future slot, got %d slots", len(res.Slots))
	}
	if !res.Slots[0].Start.Equal(at(5, 14, 0)) {
		t.Errorf("expected the 14:00 slot, got %v", res.Slots[0])
	}
}

func TestGenerate_ExceptionExclusivity(t *testing.T) {
	// Wednesday the 7th carries an exception row; its regular Wednesday
	// availability must not appear.
	rows := []models.SlotTemplate{
		{DayOfWeek: "quarta", StartTime: "14:00", EndTime: "18:00"},
		{StartTime: "08:00", EndTime: "09:30", ExceptionDate: "2026-01-07"},
	}

	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 6, 0),
		HorizonDays: 14,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	for _, slot := range res.Slots {
		if slot.Start.Day() == 7 && slot.Start.Hour() == 14 {
			t.Errorf("regular template leaked into exception date: %v", slot)
		}
	}
	// The following Wednesday (the 14th) keeps its regular availability.
	foundNextWeek := false
	for _, slot := range res.Slots {
		if slot.Start.Day() == 14 && slot.Start.Hour() == 14 {
			foundNextWeek = true
		}
	}
	if !foundNextWeek {
		t.Errorf("regular template missing on a non-exception date")
	}
	if res.ExceptionDays != 1 {
		t.Errorf("expected 1 exception day, got %d", res.ExceptionDays)
	}
	if res.ExceptionSlots != 1 {
		t.Errorf("expected 1 exception slot, got %d", res.ExceptionSlots)
	}
}

func TestGenerate_ExcludedDateProducesNothing(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"},
		{StartTime: "10:00", EndTime: "12:00", ExceptionDate: "2026-01-05"},
	}

	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:           at(5, 6, 0),
		HorizonDays:   7,
		Weekdays:      testWeekdays(),
		ExcludedDates: map[string]bool{"2026-01-05": true},
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	for _, slot := range res.Slots {
		if slot.Start.Day() == 5 {
			t.Errorf("excluded date produced a slot: %v", slot)
		}
	}
	// Exclusion wins over the exception row and is not counted as an
	// exception day.
	if res.ExceptionDays != 0 {
		t.Errorf("excluded date counted as exception day")
	}
}

func TestGenerate_ExceptionDayCountedEvenWhenSlotsElapsed(t *testing.T) {
	// The only exception slot for today has already passed: the day still
	// counts as exception-governed, but contributes no interval.
	rows := []models.SlotTemplate{
		{StartTime: "06:00", EndTime: "07:00", ExceptionDate: "2026-01-05"},
	}

	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 12, 0),
		HorizonDays: 1,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	if len(res.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(res.Slots))
	}
	if res.ExceptionDays != 1 {
		t.Errorf("expected 1 exception day, got %d", res.ExceptionDays)
	}
	if res.ExceptionSlots != 0 {
		t.Errorf("expected 0 exception slots, got %d", res.ExceptionSlots)
	}
}

func TestGenerate_DropsUnusableRows(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "lundi", StartTime: "09:00", EndTime: "11:00"},     // untranslatable
		{DayOfWeek: "segunda", StartTime: "late", EndTime: "11:00"},    // bad clock
		{DayOfWeek: "segunda", StartTime: "11:00", EndTime: "11:00"},   // empty range
		{StartTime: "09:00", EndTime: "11:00", ExceptionDate: "soon"},  // bad date
		{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "10:00"},   // fine
	}

	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 6, 0),
		HorizonDays: 1,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	if len(res.Dropped) != 3 {
		t.Errorf("expected 3 dropped rows, got %d", len(res.Dropped))
	}
	if len(res.Slots) != 1 {
		t.Fatalf("expected 1 usable slot, got %d", len(res.Slots))
	}
}

func TestGenerate_EmptyRangeRegularRowSkipped(t *testing.T) {
	// A zero-length regular row parses but produces no interval on its day.
	rows := []models.SlotTemplate{
		{DayOfWeek: "segunda", StartTime: "11:00", EndTime: "11:00"},
	}
	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 6, 0),
		HorizonDays: 7,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}
	if len(res.Slots) != 0 {
		t.Errorf("expected no slots from empty range, got %d", len(res.Slots))
	}
}

func TestGenerate_SortedAscending(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "quarta", StartTime: "14:00", EndTime: "16:00"},
		{DayOfWeek: "segunda", StartTime: "19:00", EndTime: "21:00"},
		{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"},
	}

	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 6, 0),
		HorizonDays: 10,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}

	for i := 1; i < len(res.Slots); i++ {
		if res.Slots[i].Start.Before(res.Slots[i-1].Start) {
			t.Errorf("slots out of order at %d: %v before %v", i, res.Slots[i].Start, res.Slots[i-1].Start)
		}
	}
}

func TestGenerate_InvalidHorizon(t *testing.T) {
	rows := []models.SlotTemplate{
		{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"},
	}
	for _, horizon := range []int{0, -3} {
		if _, err := GenerateAvailableSlots(rows, GenerateOptions{
			Now:         at(5, 6, 0),
			HorizonDays: horizon,
			Weekdays:    testWeekdays(),
		}); err == nil {
			t.Errorf("expected error for horizon %d, got nil", horizon)
		}
	}
}

func TestGenerate_DayWithoutTemplate(t *testing.T) {
	// Only Fridays are available; a Monday-to-Thursday horizon is empty.
	rows := []models.SlotTemplate{
		{DayOfWeek: "sexta", StartTime: "09:00", EndTime: "11:00"},
	}
	res, err := GenerateAvailableSlots(rows, GenerateOptions{
		Now:         at(5, 6, 0),
		HorizonDays: 4,
		Weekdays:    testWeekdays(),
	})
	if err != nil {
		t.Fatalf("GenerateAvailableSlots failed: %v", err)
	}
	if len(res.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(res.Slots))
	}
}
