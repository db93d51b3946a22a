package bot

import (
	"sort"
	"testing"

	"eduappbot/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allScreens() []screen {
	screens := []screen{}
	for _, state := range []StateID{
		StateGuest, StateMain, StateCalendar, StateCalendarPeriod,
		StateAuthLogin, StateAuthPassword, StateQuestionNumber,
	} {
		screens = append(screens, staticScreen(state))
	}
	for _, total := range []int{0, 3, 5, 6, 12, 15} {
		for page := 1; page <= 4; page++ {
			screens = append(screens, questionsScreen("list", page, total))
		}
	}
	for _, comments := range []int{0, 9, 10, 11, 25} {
		for page := 1; page <= 4; page++ {
			screens = append(screens, questionChatScreen("thread", comments, page))
		}
	}
	return screens
}

func TestScreenLabelsMatchTransitions(t *testing.T) {
	for _, scr := range allScreens() {
		actions := scr.actions()

		keys := make([]string, 0, len(actions))
		for k := range actions {
			keys = append(keys, k)
		}
		labels := append([]string(nil), scr.buttons...)
		sort.Strings(keys)
		sort.Strings(labels)

		assert.Equal(t, labels, keys, "state %s", scr.state)
		for _, label := range scr.buttons {
			_, ok := transitions(scr.state)[label]
			assert.True(t, ok, "label %q of %s has no transition", label, scr.state)
		}
	}
}

func TestEveryTransitionIsReachable(t *testing.T) {
	rendered := make(map[StateID]map[string]bool)
	for _, scr := range allScreens() {
		if rendered[scr.state] == nil {
			rendered[scr.state] = make(map[string]bool)
		}
		for _, label := range scr.buttons {
			rendered[scr.state][label] = true
		}
	}

	for state, table := range transitionTable {
		for label := range table {
			assert.True(t, rendered[state][label], "transition %q of %s is never rendered", label, state)
		}
	}
}

func TestResolve(t *testing.T) {
	mainScreen := staticScreen(StateMain)

	action, ok := resolve(StateMain, mainScreen.buttons, ui.ButtonCalendar)
	require.True(t, ok)
	assert.Equal(t, StateCalendar, action.Enter)

	action, ok = resolve(StateMain, mainScreen.buttons, ui.ButtonProfile)
	require.True(t, ok)
	assert.Equal(t, handlerProfile, action.Handler)

	_, ok = resolve(StateMain, mainScreen.buttons, "календарь")
	assert.False(t, ok, "matching is case-sensitive")

	_, ok = resolve(StateMain, mainScreen.buttons, ui.ButtonCalendar+" ")
	assert.False(t, ok, "no prefix matching")

	first := questionsScreen("list", 1, 12)
	_, ok = resolve(StateQuestions, first.buttons, ui.ButtonPrevFive)
	assert.False(t, ok, "label not rendered on this screen")
}

func TestQuestionsScreenButtons(t *testing.T) {
	assert.Equal(t, []string{ui.ButtonOpenQuestion, ui.ButtonNextFive, ui.ButtonBack}, questionsScreen("", 1, 12).buttons)
	assert.Equal(t, []string{ui.ButtonOpenQuestion, ui.ButtonNextFive, ui.ButtonPrevFive, ui.ButtonBack}, questionsScreen("", 2, 12).buttons)
	assert.Equal(t, []string{ui.ButtonOpenQuestion, ui.ButtonPrevFive, ui.ButtonBack}, questionsScreen("", 3, 12).buttons)
	assert.Equal(t, []string{ui.ButtonOpenQuestion, ui.ButtonBack}, questionsScreen("", 1, 5).buttons)
}

func TestQuestionChatScreenButtons(t *testing.T) {
	assert.Equal(t, []string{ui.ButtonAsk, ui.ButtonBack}, questionChatScreen("", 10, 1).buttons)
	assert.Equal(t, []string{ui.ButtonAsk, ui.ButtonOlderComments, ui.ButtonBack}, questionChatScreen("", 25, 1).buttons)
	assert.Equal(t, []string{ui.ButtonAsk, ui.ButtonOlderComments, ui.ButtonNewerComments, ui.ButtonBack}, questionChatScreen("", 25, 2).buttons)
	assert.Equal(t, []string{ui.ButtonAsk, ui.ButtonNewerComments, ui.ButtonBack}, questionChatScreen("", 25, 3).buttons)
}

func TestInputStates(t *testing.T) {
	assert.True(t, isInputState(StateAuthLogin))
	assert.True(t, isInputState(StateAuthPassword))
	assert.True(t, isInputState(StateCalendarPeriod))
	assert.True(t, isInputState(StateQuestionNumber))
	assert.False(t, isInputState(StateMain))
	assert.False(t, isInputState(StateQuestions))
}
