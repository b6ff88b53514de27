package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type generatorClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
}

type generatorSubjectRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Subject, error)
	ListExperts(ctx context.Context, subjectID string) ([]models.Teacher, error)
}

type generatorTimetableRepository interface {
	DeleteByClass(ctx context.Context, classID string) error
	BulkCreate(ctx context.Context, rows []models.Timetable) error
}

// GenerateTimetableRequest carries the batch configuration. Bounds mirror
// the administrative form.
type GenerateTimetableRequest struct {
	ClassIDs       []string `json:"class_ids" validate:"required,min=1,dive,uuid"`
	StartHour      int      `json:"start_hour" validate:"min=0,max=23"`
	EndHour        int      `json:"end_hour" validate:"required,min=1,max=23"`
	PeriodMinutes  int      `json:"period_minutes" validate:"required,min=1,max=180"`
	BreakStartHour int      `json:"break_start_hour" validate:"min=0,max=23"`
	BreakMinutes   int      `json:"break_minutes" validate:"min=0,max=60"`
}

// GenerateTimetableResult summarises one generation run.
type GenerateTimetableResult struct {
	GeneratedClasses int      `json:"generated_classes"`
	RowsCreated      int      `json:"rows_created"`
	Warnings         []string `json:"warnings"`
}

// TimetableGeneratorService builds weekly timetables for a batch of
// classes. The algorithm is greedy and deterministic: subjects and experts
// are walked in stable repository order, the class-teacher takes the first
// period of each day, and no teacher is double-booked across the batch.
type TimetableGeneratorService struct {
	classes    generatorClassRepository
	subjects   generatorSubjectRepository
	timetables generatorTimetableRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTimetableGeneratorService constructs a TimetableGeneratorService.
func NewTimetableGeneratorService(classes generatorClassRepository, subjects generatorSubjectRepository, timetables generatorTimetableRepository, validate *validator.Validate, logger *zap.Logger) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableGeneratorService{classes: classes, subjects: subjects, timetables: timetables, validator: validate, logger: logger}
}

// classPlan is the loaded scheduling input for one class.
type classPlan struct {
	class    *models.SchoolClass
	subjects []models.Subject
	experts  map[string][]models.Teacher
}

// busyKey identifies one teaching slot across the whole batch.
type busyKey struct {
	day   string
	start string
}

// Generate runs the batch. Each class is processed independently: a class
// without a class-teacher is skipped with a warning, and a persistence
// failure mid-class leaves that class partial while the rest proceed.
func (s *TimetableGeneratorService) Generate(ctx context.Context, req GenerateTimetableRequest) (*GenerateTimetableResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if req.EndHour <= req.StartHour {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end hour must be after start hour")
	}

	result := &GenerateTimetableResult{Warnings: []string{}}
	busy := make(map[busyKey]map[string]bool)

	for _, classID := range req.ClassIDs {
		plan, warning, err := s.loadPlan(ctx, classID)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
			continue
		}

		rows := s.scheduleClass(plan, req, busy)

		if err := s.timetables.DeleteByClass(ctx, classID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing timetable")
		}
		if err := s.timetables.BulkCreate(ctx, rows); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated timetable")
		}

		result.GeneratedClasses++
		result.RowsCreated += len(rows)
		s.logger.Info("timetable generated",
			zap.String("class_id", classID),
			zap.Int("rows", len(rows)))
	}

	return result, nil
}

func (s *TimetableGeneratorService) loadPlan(ctx context.Context, classID string) (*classPlan, string, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", classID))
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.ClassTeacherID == nil {
		return nil, fmt.Sprintf("class %s skipped: no class-teacher assigned", class.Name), nil
	}

	subjects, err := s.subjects.ListByClass(ctx, classID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	experts := make(map[string][]models.Teacher, len(subjects))
	for _, subject := range subjects {
		teachers, err := s.subjects.ListExperts(ctx, subject.ID)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject experts")
		}
		experts[subject.ID] = teachers
	}

	return &classPlan{class: class, subjects: subjects, experts: experts}, "", nil
}

// scheduleClass fills Monday through Saturday for one class.
func (s *TimetableGeneratorService) scheduleClass(plan *classPlan, req GenerateTimetableRequest, busy map[busyKey]map[string]bool) []models.Timetable {
	var rows []models.Timetable
	classTeacherID := *plan.class.ClassTeacherID
	slotsPerDay := (req.EndHour - req.StartHour) * 60 / req.PeriodMinutes
	breakStart := req.BreakStartHour * 60

	for _, day := range models.SchoolWeek {
		clock := req.StartHour * 60
		used := make(map[string]bool, len(plan.subjects))
		breakTaken := false

		for slot := 0; slot < slotsPerDay; slot++ {
			// The break fires once per day, as soon as the running clock
			// reaches or passes the configured break start. Periods that
			// do not align on the exact hour still get their break.
			if slot > 0 && !breakTaken && req.BreakMinutes > 0 && clock >= breakStart {
				clock += req.BreakMinutes
				breakTaken = true
			}

			var subjectID, teacherID string
			if slot == 0 {
				subjectID, teacherID = s.pickClassTeacherSubject(plan, classTeacherID, day, clock, used, busy)
			}
			if subjectID == "" {
				subjectID, teacherID = s.pickAlternate(plan, classTeacherID, day, clock, used, busy)
			}
			if subjectID == "" {
				// No unused subject left; remaining slots stay empty.
				break
			}

			start := minutesToClock(clock)
			end := minutesToClock(clock + req.PeriodMinutes)
			rows = append(rows, models.Timetable{
				ClassID:   plan.class.ID,
				Day:       day,
				StartTime: start,
				EndTime:   end,
				SubjectID: subjectID,
				TeacherID: teacherID,
			})

			key := busyKey{day: day, start: start}
			if busy[key] == nil {
				busy[key] = make(map[string]bool)
			}
			busy[key][teacherID] = true
			used[subjectID] = true
			clock += req.PeriodMinutes
		}
	}

	return rows
}

// pickClassTeacherSubject finds the first subject the class-teacher is
// expert in and free to teach. Empty result means the greedy fallback runs.
func (s *TimetableGeneratorService) pickClassTeacherSubject(plan *classPlan, classTeacherID, day string, clock int, used map[string]bool, busy map[busyKey]map[string]bool) (string, string) {
	key := busyKey{day: day, start: minutesToClock(clock)}
	for _, subject := range plan.subjects {
		if used[subject.ID] {
			continue
		}
		for _, teacher := range plan.experts[subject.ID] {
			if teacher.ID != classTeacherID {
				continue
			}
			if busy[key][teacher.ID] {
				break
			}
			return subject.ID, teacher.ID
		}
	}
	return "", ""
}

// pickAlternate greedily takes the next unused subject that has a free
// expert other than the class-teacher. Subjects with no available alternate
// are marked used so they are not retried.
func (s *TimetableGeneratorService) pickAlternate(plan *classPlan, classTeacherID, day string, clock int, used map[string]bool, busy map[busyKey]map[string]bool) (string, string) {
	key := busyKey{day: day, start: minutesToClock(clock)}
	for _, subject := range plan.subjects {
		if used[subject.ID] {
			continue
		}
		for _, teacher := range plan.experts[subject.ID] {
			if teacher.ID == classTeacherID {
				continue
			}
			if busy[key][teacher.ID] {
				continue
			}
			return subject.ID, teacher.ID
		}
		used[subject.ID] = true
	}
	return "", ""
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
