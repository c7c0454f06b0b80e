package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/shikhonhub/shikhon-backend/internal/http/handlers"
	httpMW "github.com/shikhonhub/shikhon-backend/internal/http/middleware"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler        *httpH.AuthHandler
	TopicHandler       *httpH.TopicHandler
	VideoHandler       *httpH.VideoHandler
	QuizHandler        *httpH.QuizHandler
	ProgressHandler    *httpH.ProgressHandler
	ProfileHandler     *httpH.ProfileHandler
	LeaderboardHandler *httpH.LeaderboardHandler
	CommunityHandler   *httpH.CommunityHandler
	ChallengeHandler   *httpH.ChallengeHandler
	CalendarHandler    *httpH.CalendarHandler
	DashboardHandler   *httpH.DashboardHandler
	FileHandler        *httpH.FileHandler
	RealtimeHandler    *httpH.RealtimeHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("shikhon-backend"))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.Stream)
		}

		// Profiles
		if cfg.ProfileHandler != nil {
			protected.GET("/me", cfg.ProfileHandler.GetMine)
			protected.PUT("/me", cfg.ProfileHandler.UpsertMine)
			protected.POST("/me/avatar", cfg.ProfileHandler.SetAvatar)
			protected.GET("/profiles/:userId", cfg.ProfileHandler.GetByUser)
		}

		// Topics & videos (read)
		if cfg.TopicHandler != nil {
			protected.GET("/topics", cfg.TopicHandler.List)
			protected.GET("/topics/:id", cfg.TopicHandler.Get)
		}
		if cfg.VideoHandler != nil {
			protected.GET("/videos", cfg.VideoHandler.List)
			protected.GET("/videos/:id", cfg.VideoHandler.Get)
		}

		// Quizzes
		if cfg.QuizHandler != nil {
			protected.GET("/quizzes/video/:videoId", cfg.QuizHandler.GetByVideo)
			protected.POST("/quizzes/video/:videoId/submit", cfg.QuizHandler.Submit)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.ListMine)
			protected.POST("/progress/video/:videoId/watched", cfg.ProgressHandler.MarkWatched)
			protected.POST("/progress/video/:videoId/work", cfg.ProgressHandler.SubmitWork)
		}

		// Leaderboard
		if cfg.LeaderboardHandler != nil {
			protected.GET("/leaderboard", cfg.LeaderboardHandler.Top)
		}

		// Community
		if cfg.CommunityHandler != nil {
			protected.GET("/categories", cfg.CommunityHandler.ListCategories)
			protected.GET("/posts", cfg.CommunityHandler.ListPosts)
			protected.POST("/posts", cfg.CommunityHandler.CreatePost)
			protected.POST("/posts/:id/like", cfg.CommunityHandler.ToggleLike)
			protected.GET("/posts/:id/comments", cfg.CommunityHandler.ListComments)
			protected.POST("/posts/:id/comments", cfg.CommunityHandler.AddComment)
		}

		// Challenges
		if cfg.ChallengeHandler != nil {
			protected.GET("/challenges", cfg.ChallengeHandler.List)
			protected.GET("/challenges/:id/can-participate", cfg.ChallengeHandler.CanParticipate)
			protected.GET("/challenges/:id/submissions", cfg.ChallengeHandler.ListSubmissions)
			protected.POST("/submissions", cfg.ChallengeHandler.SubmitEntry)
			protected.POST("/submissions/:id/like", cfg.ChallengeHandler.ToggleSubmissionLike)
			protected.GET("/submissions/:id/comments", cfg.ChallengeHandler.ListComments)
			protected.POST("/submissions/:id/comments", cfg.ChallengeHandler.AddComment)
			protected.POST("/payments", cfg.ChallengeHandler.SubmitPayment)
		}

		// Calendar
		if cfg.CalendarHandler != nil {
			protected.GET("/events", cfg.CalendarHandler.List)
		}

		// Files
		if cfg.FileHandler != nil {
			protected.POST("/files", cfg.FileHandler.Upload)
		}
	}

	admin := protected.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	{
		if cfg.TopicHandler != nil {
			admin.POST("/topics", cfg.TopicHandler.Create)
			admin.PUT("/topics/:id", cfg.TopicHandler.Update)
			admin.DELETE("/topics/:id", cfg.TopicHandler.Delete)
		}
		if cfg.VideoHandler != nil {
			admin.POST("/videos", cfg.VideoHandler.Create)
			admin.PUT("/videos/:id", cfg.VideoHandler.Update)
			admin.DELETE("/videos/:id", cfg.VideoHandler.Delete)
		}
		if cfg.QuizHandler != nil {
			admin.GET("/quizzes", cfg.QuizHandler.List)
			admin.POST("/quizzes", cfg.QuizHandler.Create)
			admin.PUT("/quizzes/:id", cfg.QuizHandler.Update)
			admin.DELETE("/quizzes/:id", cfg.QuizHandler.Delete)
		}
		if cfg.ProgressHandler != nil {
			admin.GET("/progress/user/:userId", cfg.ProgressHandler.ListForUser)
		}
		if cfg.CommunityHandler != nil {
			admin.POST("/categories", cfg.CommunityHandler.CreateCategory)
			admin.PUT("/categories/:id", cfg.CommunityHandler.UpdateCategory)
			admin.DELETE("/categories/:id", cfg.CommunityHandler.DeleteCategory)
			admin.POST("/posts/:id/approve", cfg.CommunityHandler.ApprovePost)
			admin.POST("/posts/:id/reject", cfg.CommunityHandler.RejectPost)
			admin.POST("/posts/:id/pin", cfg.CommunityHandler.PinPost)
			admin.DELETE("/posts/:id", cfg.CommunityHandler.DeletePost)
		}
		if cfg.ChallengeHandler != nil {
			admin.POST("/challenges", cfg.ChallengeHandler.Create)
			admin.PUT("/challenges/:id", cfg.ChallengeHandler.Update)
			admin.DELETE("/challenges/:id", cfg.ChallengeHandler.Delete)
			admin.POST("/challenges/:id/reset", cfg.ChallengeHandler.Reset)
			admin.GET("/challenges/:id/payments", cfg.ChallengeHandler.ListPayments)
			admin.POST("/submissions/:id/approve", cfg.ChallengeHandler.ApproveSubmission)
			admin.POST("/submissions/:id/reject", cfg.ChallengeHandler.RejectSubmission)
			admin.PUT("/payments/:id/status", cfg.ChallengeHandler.SetPaymentStatus)
		}
		if cfg.CalendarHandler != nil {
			admin.POST("/events", cfg.CalendarHandler.Create)
			admin.PUT("/events/:id", cfg.CalendarHandler.Update)
			admin.DELETE("/events/:id", cfg.CalendarHandler.Delete)
		}
		if cfg.DashboardHandler != nil {
			admin.GET("/dashboard/stats", cfg.DashboardHandler.Stats)
		}
		if cfg.FileHandler != nil {
			admin.DELETE("/files", cfg.FileHandler.Delete)
		}
	}

	return r
}
