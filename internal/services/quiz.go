package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
)

var ErrQuizNotFound = errors.New("no quiz for this video")

const optionsPerQuestion = 4

type QuizInput struct {
	VideoID      uuid.UUID        `json:"video_id"`
	Questions    []types.Question `json:"questions"`
	PassingScore int              `json:"passing_score"`
	Points       int              `json:"points"`
}

type QuizResult struct {
	Score        int  `json:"score"`
	Passed       bool `json:"passed"`
	PointsEarned int  `json:"points_earned"`
	Attempts     int  `json:"attempts"`
	FirstPass    bool `json:"first_pass"`
}

type QuizService interface {
	List(ctx context.Context) ([]types.Quiz, error)
	GetByVideo(ctx context.Context, videoID uuid.UUID) (*types.Quiz, error)
	Create(ctx context.Context, in QuizInput) (*types.Quiz, error)
	Update(ctx context.Context, id uuid.UUID, in QuizInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	Submit(ctx context.Context, videoID uuid.UUID, answers []int) (*QuizResult, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizzes      *binding.Collection[types.Quiz]
	progressRepo repos.ProgressRepo
	profileRepo  repos.ProfileRepo
	now          func() time.Time
}

func NewQuizService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger, progressRepo repos.ProgressRepo, profileRepo repos.ProfileRepo) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{
		db:           db,
		log:          serviceLog,
		quizzes:      binding.Bind[types.Quiz](db, bus, log, "quizzes"),
		progressRepo: progressRepo,
		profileRepo:  profileRepo,
		now:          time.Now,
	}
}

func (qs *quizService) List(ctx context.Context) ([]types.Quiz, error) {
	return qs.quizzes.List(ctx)
}

func (qs *quizService) GetByVideo(ctx context.Context, videoID uuid.UUID) (*types.Quiz, error) {
	all, err := qs.quizzes.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].VideoID == videoID {
			return &all[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

func validateQuiz(in QuizInput) error {
	if in.VideoID == uuid.Nil {
		return fmt.Errorf("%w: video is required", ErrValidation)
	}
	if len(in.Questions) == 0 {
		return fmt.Errorf("%w: a quiz needs at least one question", ErrValidation)
	}
	if in.PassingScore < 0 || in.PassingScore > 100 {
		return fmt.Errorf("%w: passing score must be between 0 and 100", ErrValidation)
	}
	for i, q := range in.Questions {
		if q.Question == "" {
			return fmt.Errorf("%w: question %d has no text", ErrValidation, i+1)
		}
		if len(q.Options) != optionsPerQuestion {
			return fmt.Errorf("%w: question %d must have exactly %d options", ErrValidation, i+1, optionsPerQuestion)
		}
		for j, opt := range q.Options {
			if opt == "" {
				return fmt.Errorf("%w: question %d option %d is empty", ErrValidation, i+1, j+1)
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= optionsPerQuestion {
			return fmt.Errorf("%w: question %d correct answer out of range", ErrValidation, i+1)
		}
	}
	return nil
}

func (qs *quizService) Create(ctx context.Context, in QuizInput) (*types.Quiz, error) {
	if err := validateQuiz(in); err != nil {
		return nil, err
	}

	quiz := types.Quiz{
		VideoID:      in.VideoID,
		Questions:    datatypes.NewJSONSlice(in.Questions),
		PassingScore: in.PassingScore,
		Points:       in.Points,
	}
	if _, err := qs.quizzes.Add(ctx, nil, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (qs *quizService) Update(ctx context.Context, id uuid.UUID, in QuizInput) error {
	if err := validateQuiz(in); err != nil {
		return err
	}
	return qs.quizzes.Update(ctx, nil, id, map[string]any{
		"questions":     datatypes.NewJSONSlice(in.Questions),
		"passing_score": in.PassingScore,
		"points":        in.Points,
	})
}

func (qs *quizService) Delete(ctx context.Context, id uuid.UUID) error {
	return qs.quizzes.Remove(ctx, nil, id)
}

// grade scores an answer sheet against the quiz questions. Unanswered or
// out-of-range entries count as wrong.
func grade(questions []types.Question, answers []int) (score int, correct int) {
	if len(questions) == 0 {
		return 0, 0
	}
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	score = int(math.Round(100 * float64(correct) / float64(len(questions))))
	return score, correct
}

// Submit grades an attempt and records it on the caller's progress row.
// Points and completed-video credit are awarded only on the first passing
// attempt for this (user, video) pair; later passes change nothing.
func (qs *quizService) Submit(ctx context.Context, videoID uuid.UUID, answers []int) (*QuizResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	quiz, err := qs.GetByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	score, _ := grade(quiz.Questions, answers)
	passed := score >= quiz.PassingScore

	var result *QuizResult
	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := qs.progressRepo.GetOrCreate(ctx, tx, rd.UserID, videoID)
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}

		firstPass := passed && !progress.QuizPassed
		patch := map[string]any{
			"quiz_score":    score,
			"quiz_attempts": gorm.Expr("quiz_attempts + 1"),
		}
		if firstPass {
			patch["quiz_passed"] = true
			patch["watched"] = true
		}
		if err := qs.progressRepo.Update(ctx, tx, progress.ID, patch); err != nil {
			return fmt.Errorf("recording attempt: %w", err)
		}

		earned := 0
		if firstPass {
			earned = quiz.Points
			if err := qs.profileRepo.Award(ctx, tx, rd.UserID, quiz.Points, 1); err != nil {
				return fmt.Errorf("awarding points: %w", err)
			}
		}

		result = &QuizResult{
			Score:        score,
			Passed:       passed,
			PointsEarned: earned,
			Attempts:     progress.QuizAttempts + 1,
			FirstPass:    firstPass,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	qs.log.Info("quiz attempt recorded",
		"user_id", rd.UserID, "video_id", videoID,
		"score", score, "passed", passed, "first_pass", result.FirstPass)
	return result, nil
}
