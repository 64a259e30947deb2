package controller

import (
	"errors"
	"net/http"
	"strconv"

	"simco_backend/internal/service"
	"simco_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxQuizLength = 20

type QuizController struct {
	quizService   *service.QuizService
	defaultLength int
}

func NewQuizController(quizService *service.QuizService, defaultLength int) *QuizController {
	return &QuizController{quizService: quizService, defaultLength: defaultLength}
}

// respondQuizError 把业务错误映射到HTTP状态码，未知错误一律500并落日志
func respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyAnswered),
		errors.Is(err, util.ErrConfidenceRequired),
		errors.Is(err, util.ErrInvalidMetrics):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrGeneratorUnavailable):
		util.BadGateway(ctx, err.Error())
	case errors.Is(err, util.ErrNoQuestionsGenerated):
		util.Error(ctx, http.StatusInternalServerError, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// GenerateQuestion 生成单道题目并开启会话
// @Summary 生成单道测验题
// @Description 调用生成模型产出一道选择题，解析失败时降级返回原始文本
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body service.QuestionRequest true "主题与难度"
// @Success 200 {object} service.QuestionResponse
// @Failure 502 {object} util.Response
// @Router /api/generate-question [post]
func (c *QuizController) GenerateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.quizService.GenerateQuestion(ctx.Request.Context(), &req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GenerateQuiz 生成完整测验
// @Summary 生成完整测验
// @Description 逐题生成，失败的题目跳过，返回的题数可能少于请求数
// @Tags Quiz
// @Accept json
// @Produce json
// @Param num_questions query int false "题目数量" default(5)
// @Param request body service.QuestionRequest true "主题与难度"
// @Success 200 {object} service.QuizResponse
// @Failure 500 {object} util.Response
// @Router /api/generate-quiz [post]
func (c *QuizController) GenerateQuiz(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	numQuestions := c.defaultLength
	if raw := ctx.Query("num_questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			util.BadRequest(ctx, "num_questions must be a positive integer")
			return
		}
		numQuestions = n
	}
	if numQuestions > maxQuizLength {
		numQuestions = maxQuizLength
	}

	resp, err := c.quizService.GenerateQuiz(ctx.Request.Context(), &req, numQuestions)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// SubmitAnswer 提交作答
// @Summary 提交一道题的作答
// @Description 记录选项、置信度与行为指标，返回判分结果；重复提交会被拒绝
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body service.AnswerRequest true "作答内容"
// @Success 200 {object} service.AnswerResponse
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submit-answer [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	var req service.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.quizService.SubmitAnswer(ctx.Request.Context(), &req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// UpdateConfidence 回填整体置信度
// @Summary 测验结束后回填整体置信度
// @Description 覆盖该会话所有已作答题目的置信度
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body service.ConfidenceRequest true "整体置信度"
// @Success 200 {object} service.ConfidenceResponse
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/update-confidence [post]
func (c *QuizController) UpdateConfidence(ctx *gin.Context) {
	var req service.ConfidenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Confidence == nil {
		util.BadRequest(ctx, util.ErrConfidenceRequired.Error())
		return
	}

	resp, err := c.quizService.UpdateConfidence(ctx.Request.Context(), &req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GetScore 查询当前得分
// @Summary 查询会话当前得分
// @Tags Quiz
// @Produce json
// @Param sessionId path string true "会话ID"
// @Success 200 {object} service.ScoreResponse
// @Failure 404 {object} util.Response
// @Router /api/quiz-score/{sessionId} [get]
func (c *QuizController) GetScore(ctx *gin.Context) {
	resp, err := c.quizService.GetScore(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GetResults 获取完整结果报告
// @Summary 获取完整结果报告
// @Description 得分档位、逐题回顾、学习建议，有行为数据时附带行为分析
// @Tags Quiz
// @Produce json
// @Param sessionId path string true "会话ID"
// @Success 200 {object} service.QuizResults
// @Failure 404 {object} util.Response
// @Router /api/quiz-results/{sessionId} [get]
func (c *QuizController) GetResults(ctx *gin.Context) {
	resp, err := c.quizService.GetResults(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
