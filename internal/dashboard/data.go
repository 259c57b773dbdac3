package dashboard

import "fmt"

type Exercise struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Calories int    `json:"calories"`
}

// ProgressCircle is one of the ring indicators on top of the dashboard.
// Progress is the CSS value the client assigns to --progress.
type ProgressCircle struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	Progress string `json:"progress"`
}

type Dataset struct {
	Label           string `json:"label"`
	Data            []int  `json:"data"`
	BackgroundColor string `json:"backgroundColor"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type AxisOptions struct {
	BeginAtZero bool `json:"beginAtZero"`
	Max         int  `json:"max"`
}

type ChartOptions struct {
	Responsive          bool                   `json:"responsive"`
	MaintainAspectRatio bool                   `json:"maintainAspectRatio"`
	Scales              map[string]AxisOptions `json:"scales"`
}

// Chart is handed to the client charting library as is.
type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

func Exercises() []Exercise {
	return []Exercise{
		{Name: "Push-ups", Duration: "10 mins", Calories: 100},
		{Name: "Squats", Duration: "15 mins", Calories: 150},
		{Name: "Planks", Duration: "5 mins", Calories: 50},
	}
}

func WeeklyChart() Chart {
	return Chart{
		Type: "bar",
		Data: ChartData{
			Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Datasets: []Dataset{
				{
					Label:           "Physical Activities",
					Data:            []int{65, 70, 60, 75, 80, 85, 70},
					BackgroundColor: "#8884d8",
				},
				{
					Label:           "Sleep Patterns",
					Data:            []int{80, 75, 85, 70, 75, 90, 85},
					BackgroundColor: "#82ca9d",
				},
				{
					Label:           "Study Sessions",
					Data:            []int{70, 65, 75, 80, 85, 60, 55},
					BackgroundColor: "#ffc658",
				},
				{
					Label:           "Mood Trends",
					Data:            []int{85, 80, 75, 90, 85, 95, 90},
					BackgroundColor: "#ff7c7c",
				},
			},
		},
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Scales: map[string]AxisOptions{
				"y": {BeginAtZero: true, Max: 100},
			},
		},
	}
}

func ProgressCircles() []ProgressCircle {
	circles := []ProgressCircle{
		{Label: "Physical Activities", Value: 70},
		{Label: "Sleep Patterns", Value: 85},
		{Label: "Study Sessions", Value: 55},
		{Label: "Mood Trends", Value: 90},
	}
	for i := range circles {
		circles[i].Progress = fmt.Sprintf("%d%%", circles[i].Value)
	}
	return circles
}
