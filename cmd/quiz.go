package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/progress"
	"github.com/minpaixinyu/minpai/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the Fujian culture knowledge quiz",
	Long: `Runs the knowledge quiz. Practice mode reveals the answer and
explanation immediately after every selection; exam mode submits each
answer to the server before revealing it and runs against the clock.`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().String("mode", "", "skip the mode prompt: practice or exam")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	modeFlag, _ := cmd.Flags().GetString("mode")

	for {
		if err := runQuizOnce(ctx, client, cfg.ExamDuration(), modeFlag); err != nil {
			return err
		}

		again := promptui.Prompt{Label: "再来一次", IsConfirm: true}
		if _, err := again.Run(); err != nil {
			return nil
		}
	}
}

func runQuizOnce(ctx context.Context, client *api.Client, examDuration time.Duration, modeFlag string) error {
	var mode quiz.Mode
	switch modeFlag {
	case "practice":
		mode = quiz.ModePractice
	case "exam":
		mode = quiz.ModeExam
	case "":
		modeSelect := promptui.Select{
			Label: "选择模式",
			Items: []string{"练习模式（即时反馈）", "考试模式（限时答题）"},
		}
		idx, _, err := modeSelect.Run()
		if err != nil {
			return fmt.Errorf("mode prompt: %w", err)
		}
		mode = quiz.ModePractice
		if idx == 1 {
			mode = quiz.ModeExam
		}
	default:
		return fmt.Errorf("unknown mode %q: use practice or exam", modeFlag)
	}

	session, err := quiz.Start(ctx, client, mode, examDuration, func(r quiz.Result) {
		fmt.Println("\n时间到！考试已自动结束。")
		printQuizResult(r)
	})
	if err != nil {
		if errors.Is(err, api.ErrNoQuestions) {
			fmt.Println("题库暂时为空，请稍后再试。")
			return nil
		}
		return fmt.Errorf("starting quiz: %w", err)
	}
	defer session.Stop()

	reporter := progress.NewReporter()
	reporter.Start("答题进度", session.Len())
	defer reporter.Finish()

	for !session.Finished() {
		q := session.Current()
		fmt.Printf("\n第 %d/%d 题（%d 分）\n%s\n", session.Index()+1, session.Len(), q.Score, q.Question)
		if mode == quiz.ModeExam {
			fmt.Printf("剩余时间：%s\n", session.Remaining().Round(time.Second))
		}

		letters := q.Letters()
		items := make([]string, len(letters))
		for i, l := range letters {
			items[i] = fmt.Sprintf("%s. %s", l, q.Option(l))
		}
		answerSelect := promptui.Select{Label: "你的答案", Items: items}
		choice, _, err := answerSelect.Run()
		if err != nil {
			// Interrupted mid-quiz: settle and report what was answered.
			printQuizResult(session.Finish())
			return nil
		}
		if session.Finished() {
			break
		}

		feedback, err := session.Select(letters[choice])
		if err != nil {
			if errors.Is(err, quiz.ErrFinished) {
				break
			}
			return err
		}

		if mode == quiz.ModeExam {
			feedback, err = session.Submit(ctx, client)
			if err != nil && !errors.Is(err, quiz.ErrFinished) {
				fmt.Fprintf(os.Stderr, "提交失败: %v\n", err)
			}
		}
		if feedback != nil {
			printFeedback(*feedback)
		}

		reporter.Update(session.Index()+1, "")
		if session.OnLast() {
			break
		}
		session.Next()
	}

	if !session.Finished() {
		printQuizResult(session.Finish())
	}
	return nil
}

func printFeedback(f quiz.Feedback) {
	if f.Correct {
		fmt.Println("✔ 回答正确！")
	} else {
		fmt.Printf("✘ 回答错误。正确答案：%s. %s\n", f.CorrectAnswer, f.CorrectText)
	}
	if f.Explanation != "" {
		fmt.Printf("解析：%s\n", f.Explanation)
	}
}

func printQuizResult(r quiz.Result) {
	fmt.Println("\n======== 成绩单 ========")
	fmt.Printf("得分：%d\n", r.TotalScore)
	fmt.Printf("答对：%d/%d（已答 %d）\n", r.CorrectCount, r.Total, r.Answered)
	fmt.Printf("正确率：%d%%\n", r.Accuracy)
	if r.SubmittedAll {
		fmt.Println("所有答案均已提交服务器。")
	}
	fmt.Println("========================")
}
