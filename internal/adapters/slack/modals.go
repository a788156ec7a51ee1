package slack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

// Callback ids of the modals, echoed back in view_submission payloads.
const (
	CallbackVote          = "vote"
	CallbackCheckComments = "check_comments"
)

const (
	BlockSelectUser    = domain.FieldSelectUser
	BlockComment       = domain.FieldComment
	BlockCommentHeader = "check_comments_header"

	pointsValuePrefix = "value-"
)

var ErrMissingSelection = errors.New("no user selected")

// ActionID is the action id of the single input element inside blockID.
func ActionID(blockID string) string {
	return blockID + "-action"
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func selectUserBlock() *slack.InputBlock {
	element := slack.NewOptionsSelectBlockElement(slack.OptTypeUser, plainText("User"), ActionID(BlockSelectUser))
	return slack.NewInputBlock(BlockSelectUser, plainText("Select user"), nil, element)
}

func pointsBlock(category domain.Category) *slack.InputBlock {
	options := make([]*slack.OptionBlockObject, 0, domain.MaxCategoryPoints+1)
	for value := 0; value <= domain.MaxCategoryPoints; value++ {
		options = append(options, slack.NewOptionBlockObject(
			pointsValuePrefix+strconv.Itoa(value),
			plainText(strconv.Itoa(value)),
			nil,
		))
	}
	blockID := string(category)
	element := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Select amount of points"), ActionID(blockID), options...)
	return slack.NewInputBlock(blockID, plainText(category.Label()+":"), nil, element)
}

func commentBlock() *slack.InputBlock {
	element := slack.NewPlainTextInputBlockElement(plainText("Why do they deserve it?"), ActionID(BlockComment))
	element.Multiline = true
	block := slack.NewInputBlock(BlockComment, plainText("Comment"), nil, element)
	block.Optional = true
	return block
}

// VotingModal is the form opened by the vote command.
func VotingModal() slack.ModalViewRequest {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText("Grant somebody points in our awards program!")),
		selectUserBlock(),
		slack.NewDividerBlock(),
		slack.NewContextBlock("", plainText(fmt.Sprintf("You must give out exactly %d points in total:", domain.PointBudget))),
	}
	for _, category := range domain.Categories {
		blocks = append(blocks, pointsBlock(category))
	}
	blocks = append(blocks, commentBlock())

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: CallbackVote,
		Title:      plainText("Voting"),
		Submit:     plainText("Submit"),
		Close:      plainText("Cancel"),
		Blocks:     slack.Blocks{BlockSet: blocks},
	}
}

// CommentsModal asks for the user whose comments should be listed.
func CommentsModal() slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: CallbackCheckComments,
		Title:      plainText("Comments"),
		Submit:     plainText("Show"),
		Close:      plainText("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewHeaderBlock(plainText("View all comments given to a user"), slack.HeaderBlockOptionBlockID(BlockCommentHeader)),
			slack.NewDividerBlock(),
			selectUserBlock(),
		}},
	}
}

// IsCommentsSubmission tells a comments modal submission from a vote.
func IsCommentsSubmission(view slack.View) bool {
	if view.CallbackID != "" {
		return view.CallbackID == CallbackCheckComments
	}
	for _, block := range view.Blocks.BlockSet {
		if block.ID() == BlockCommentHeader {
			return true
		}
	}
	return false
}

// VoteSubmission is the content of a submitted voting modal.
type VoteSubmission struct {
	TargetID string
	Points   domain.Points
	Comment  string
}

// SelectedUser reads the user picked in the select_user block.
func SelectedUser(state *slack.ViewState) (string, error) {
	if state == nil {
		return "", ErrMissingSelection
	}
	action, ok := state.Values[BlockSelectUser][ActionID(BlockSelectUser)]
	if !ok || action.SelectedUser == "" {
		return "", ErrMissingSelection
	}
	return action.SelectedUser, nil
}

// ParseVoteSubmission reads the voting modal state. A category left
// unselected counts as 0 points.
func ParseVoteSubmission(state *slack.ViewState) (VoteSubmission, error) {
	target, err := SelectedUser(state)
	if err != nil {
		return VoteSubmission{}, err
	}

	points := domain.NewPoints()
	for _, category := range domain.Categories {
		blockID := string(category)
		action, ok := state.Values[blockID][ActionID(blockID)]
		if !ok || action.SelectedOption.Value == "" {
			continue
		}
		value, err := strconv.Atoi(strings.TrimPrefix(action.SelectedOption.Value, pointsValuePrefix))
		if err != nil {
			return VoteSubmission{}, fmt.Errorf("invalid %s option %q: %w", blockID, action.SelectedOption.Value, err)
		}
		points[category] = value
	}

	comment := strings.TrimSpace(state.Values[BlockComment][ActionID(BlockComment)].Value)

	return VoteSubmission{TargetID: target, Points: points, Comment: comment}, nil
}
