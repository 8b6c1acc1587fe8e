package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/allowance"
	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
)

// ScheduleInput carries the schedule fields of a day save.
type ScheduleInput struct {
	Code string `json:"code"`
	Note string `json:"note"`
}

// AllowanceInput carries the allowance claim fields of a day save. The
// amount is never part of the input; it is derived by the engine.
type AllowanceInput struct {
	ActivityID    allowance.ActivityID      `json:"activity_id"`
	Tier          allowance.DestinationTier `json:"destination_tier"`
	Detail        string                    `json:"detail"`
	Driving       bool                      `json:"driving"`
	Accommodation bool                      `json:"accommodation"`
	HalfDay       bool                      `json:"half_day"`
}

// DayInput is one day's edit form. A nil subset leaves that track's record
// untouched. DayType is derived at the boundary from the imported calendar.
type DayInput struct {
	DayType   calendar.DayType `json:"day_type"`
	Schedule  *ScheduleInput   `json:"schedule,omitempty"`
	Allowance *AllowanceInput  `json:"allowance,omitempty"`
}

// SavePart reports what happened to one subset of a day save. A provided but
// locked subset is reported as skipped with the lock reason - it is never
// dropped silently.
type SavePart struct {
	Provided bool   `json:"provided"`
	Saved    bool   `json:"saved"`
	Skipped  string `json:"skipped,omitempty"`
}

// SaveDayResult reports the outcome of a day save per track. The two writes
// are independent; partial success is a legitimate outcome.
type SaveDayResult struct {
	Date      time.Time `json:"date"`
	Schedule  SavePart  `json:"schedule"`
	Allowance SavePart  `json:"allowance"`
	Amount    int       `json:"amount"`
}

// DayView combines a day's stored records with its computed lock state.
type DayView struct {
	Date        time.Time              `json:"date"`
	Schedule    *entity.ScheduleEntry  `json:"schedule,omitempty"`
	Claim       *entity.AllowanceClaim `json:"claim,omitempty"`
	Editability *DayEditability        `json:"editability"`
}

// MonthView is a user's full month: entries, claims, per-track statuses and
// the claim total.
type MonthView struct {
	YearMonth   calendar.YearMonth                     `json:"year_month"`
	Schedule    []*entity.ScheduleEntry                `json:"schedule"`
	Claims      []*entity.AllowanceClaim               `json:"claims"`
	Statuses    map[entity.Track]*entity.MonthlyStatus `json:"statuses"`
	TotalAmount int                                    `json:"total_amount"`
}

// DayService reads and writes per-day schedule entries and allowance claims,
// honoring the per-track lock rule.
type DayService interface {
	SaveDay(ctx context.Context, actor Actor, userID string, date time.Time, in DayInput) (*SaveDayResult, error)
	GetDay(ctx context.Context, actor Actor, userID string, date time.Time) (*DayView, error)
	MonthView(ctx context.Context, userID string, ym calendar.YearMonth) (*MonthView, error)
}

type dayServiceImpl struct {
	scheduleRepo port.ScheduleRepository
	claimRepo    port.ClaimRepository
	monthly      MonthlyService
	logger       Logger
}

// NewDayService creates a new DayService.
func NewDayService(
	scheduleRepo port.ScheduleRepository,
	claimRepo port.ClaimRepository,
	monthly MonthlyService,
	logger Logger,
) DayService {
	return &dayServiceImpl{
		scheduleRepo: scheduleRepo,
		claimRepo:    claimRepo,
		monthly:      monthly,
		logger:       logger,
	}
}

// SaveDay applies each provided subset only if its track is unlocked. The
// schedule and allowance writes are deliberately separate operations: a
// failure in the second does not roll back the first, and the result always
// states which subset was applied.
func (s *dayServiceImpl) SaveDay(ctx context.Context, actor Actor, userID string, date time.Time, in DayInput) (*SaveDayResult, error) {
	ym := calendar.YearMonthOf(date)
	res := &SaveDayResult{Date: date}

	if in.Schedule != nil {
		res.Schedule.Provided = true

		lock, err := s.monthly.TrackLock(ctx, actor, userID, ym, entity.TrackSchedule)
		if err != nil {
			return res, err
		}
		if lock.Locked {
			res.Schedule.Skipped = lock.Reason
		} else {
			entry := &entity.ScheduleEntry{
				UserID: userID,
				Date:   date,
				Code:   in.Schedule.Code,
				Note:   in.Schedule.Note,
			}
			if err := s.scheduleRepo.Put(ctx, entry); err != nil {
				s.logger.Error("Failed to save schedule entry", "error", err, "user_id", userID, "date", date.Format("2006-01-02"))
				return res, fmt.Errorf("save schedule: %w", err)
			}
			res.Schedule.Saved = true
		}
	}

	if in.Allowance != nil {
		res.Allowance.Provided = true

		lock, err := s.monthly.TrackLock(ctx, actor, userID, ym, entity.TrackAllowance)
		if err != nil {
			return res, err
		}
		if lock.Locked {
			res.Allowance.Skipped = lock.Reason
		} else {
			claim, err := s.buildClaim(userID, date, in.DayType, in.Allowance)
			if err != nil {
				return res, err
			}
			if err := s.claimRepo.Put(ctx, claim); err != nil {
				s.logger.Error("Failed to save allowance claim", "error", err, "user_id", userID, "date", date.Format("2006-01-02"))
				return res, fmt.Errorf("save claim: %w", err)
			}
			res.Allowance.Saved = true
			res.Amount = claim.Amount
		}
	}

	return res, nil
}

// buildClaim re-validates eligibility server-side (the form-side guard is
// advisory) and derives the amount from the claim fields.
func (s *dayServiceImpl) buildClaim(userID string, date time.Time, dayType calendar.DayType, in *AllowanceInput) (*entity.AllowanceClaim, error) {
	if !in.Tier.IsValid() {
		return nil, fmt.Errorf("%w: unknown destination tier %q", ErrInvalidInput, in.Tier)
	}

	workDay := dayType.IsWorkDay()
	if elig := allowance.CanSelectActivity(in.ActivityID, workDay); !elig.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, elig.Message)
	}

	claim := &entity.AllowanceClaim{
		UserID:        userID,
		Date:          date,
		ActivityID:    in.ActivityID,
		Tier:          in.Tier,
		Detail:        in.Detail,
		Driving:       in.Driving,
		Accommodation: in.Accommodation,
		HalfDay:       in.HalfDay,
		WorkDay:       workDay,
	}
	claim.Amount = allowance.Compute(claim.ComputeInput())
	return claim, nil
}

func (s *dayServiceImpl) GetDay(ctx context.Context, actor Actor, userID string, date time.Time) (*DayView, error) {
	entry, err := s.scheduleRepo.GetByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	claim, err := s.claimRepo.GetByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}

	edit, err := s.monthly.Editability(ctx, actor, userID, date)
	if err != nil {
		return nil, err
	}

	return &DayView{Date: date, Schedule: entry, Claim: claim, Editability: edit}, nil
}

func (s *dayServiceImpl) MonthView(ctx context.Context, userID string, ym calendar.YearMonth) (*MonthView, error) {
	entries, err := s.scheduleRepo.ListByMonth(ctx, userID, ym)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}

	claims, err := s.claimRepo.ListByMonth(ctx, userID, ym)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	view := &MonthView{
		YearMonth: ym,
		Schedule:  entries,
		Claims:    claims,
		Statuses:  make(map[entity.Track]*entity.MonthlyStatus, len(entity.Tracks)),
	}
	for _, c := range claims {
		view.TotalAmount += c.Amount
	}

	for _, track := range entity.Tracks {
		st, err := s.monthly.Status(ctx, userID, ym, track)
		if err != nil {
			return nil, err
		}
		view.Statuses[track] = st
	}

	return view, nil
}
