package model

// TrainingSample 离线模型训练用的扁平化样本，
// 每个已作答且带行为指标的题目一条
type TrainingSample struct {
	BaseModel
	SessionID  string `gorm:"index;size:36" json:"session_id"`
	QuestionID string `gorm:"index;size:36" json:"question_id"`

	IsCorrect  bool `gorm:"not null" json:"is_correct"`
	Confidence int  `gorm:"not null" json:"confidence"`

	BlinkRate     float64 `json:"blink_rate"`
	HeadMovement  float64 `json:"head_movement"`
	GazeStability float64 `json:"gaze_stability"`

	// 派生特征，与训练管线的特征列一一对应
	ConfidenceError float64 `json:"confidence_error"`
	HighStress      bool    `json:"high_stress"`
	LowAttention    bool    `json:"low_attention"`
	Overconfident   bool    `json:"overconfident"`
	Underconfident  bool    `json:"underconfident"`
}

func (TrainingSample) TableName() string {
	return "training_samples"
}
