package domain

// CoachWorkout is a workout recommended by the AI coach.
type CoachWorkout struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Duration    string   `json:"duration"`
	Difficulty  string   `json:"difficulty"`
	Calories    int      `json:"calories"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
	Reason      string   `json:"ai_reason"`
}

// CoachReplies is the fixed set an AI coach reply is drawn from.
var CoachReplies = []string{
	"Great question! Based on your current progress, I'd recommend focusing on consistency over intensity.",
	"That's an excellent goal! Let me create a customized plan that fits your schedule perfectly.",
	"I've analyzed your workout history and noticed you're making great progress! Keep it up!",
	"For optimal results, try to maintain a 3-4 workout per week schedule. Your body needs recovery time too!",
	"Your form is improving! I recommend adding some mobility work to prevent injuries.",
	"Based on your preferences, I've updated your workout recommendations. Check out the new plans!",
}
