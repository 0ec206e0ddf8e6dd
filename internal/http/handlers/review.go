package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type ReviewHandler struct {
	log           *logger.Logger
	reviewService services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{log: log.With("handler", "ReviewHandler"), reviewService: reviewService}
}

// POST /api/reviews
// A repeat review is not an error: the response says already_reviewed.
func (rh *ReviewHandler) Add(c *gin.Context) {
	var req struct {
		ProductSlug string `json:"product_slug"`
		Rating      int    `json:"rating"`
		Comment     string `json:"comment"`
	}
	if !bindJSON(c, rh.log, &req) {
		return
	}
	res, err := rh.reviewService.AddReview(c.Request.Context(), services.AddReviewRequest{
		ProductSlug: req.ProductSlug,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		response.RespondServiceError(c, rh.log, err)
		return
	}
	if res.AlreadyReviewed {
		response.RespondOK(c, res)
		return
	}
	response.RespondCreated(c, res)
}
