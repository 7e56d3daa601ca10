package bot

import "strings"

// Kind is the closed set of chat commands. Adding or removing a command is a
// compile-time change: Parse and (*Bot).Handle both switch exhaustively.
type Kind int

const (
	KindNone Kind = iota
	KindMistress
	KindSetSafeword
	KindSetLimits
	KindSetPrefs
	KindProfile
	KindDailyTask
	KindTaskDone
	KindAftercare
	KindDailyReminder
	KindAddTask
	KindDelTask
	KindAddReminder
	KindDelReminder
	KindAddAftercare
	KindDelAftercare
	KindAdminDash
)

// admin reports whether the command requires the administrator capability.
func (k Kind) admin() bool {
	switch k {
	case KindAddTask, KindDelTask, KindAddReminder, KindDelReminder,
		KindAddAftercare, KindDelAftercare, KindAdminDash:
		return true
	}
	return false
}

type Command struct {
	Kind Kind
	Args []string
}

// Parse classifies a message by its first whitespace-delimited token,
// case-sensitive, prefixed "!". Anything else is KindNone.
func Parse(content string) Command {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return Command{Kind: KindNone}
	}
	args := fields[1:]
	switch fields[0] {
	case "!mistress":
		return Command{Kind: KindMistress, Args: args}
	case "!setsafeword":
		return Command{Kind: KindSetSafeword, Args: args}
	case "!setlimits":
		return Command{Kind: KindSetLimits, Args: args}
	case "!setprefs":
		return Command{Kind: KindSetPrefs, Args: args}
	case "!profile":
		return Command{Kind: KindProfile, Args: args}
	case "!dailytask":
		return Command{Kind: KindDailyTask, Args: args}
	case "!taskdone":
		return Command{Kind: KindTaskDone, Args: args}
	case "!aftercare":
		return Command{Kind: KindAftercare, Args: args}
	case "!dailyreminder":
		return Command{Kind: KindDailyReminder, Args: args}
	case "!addtask":
		return Command{Kind: KindAddTask, Args: args}
	case "!deltask":
		return Command{Kind: KindDelTask, Args: args}
	case "!addreminder":
		return Command{Kind: KindAddReminder, Args: args}
	case "!delreminder":
		return Command{Kind: KindDelReminder, Args: args}
	case "!addaftercare":
		return Command{Kind: KindAddAftercare, Args: args}
	case "!delaftercare":
		return Command{Kind: KindDelAftercare, Args: args}
	case "!admindash":
		return Command{Kind: KindAdminDash, Args: args}
	default:
		return Command{Kind: KindNone}
	}
}
