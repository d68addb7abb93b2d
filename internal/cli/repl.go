package cli

import (
	"context"
	"strings"
)

const helpLoggedOut = "Commands: register, login, status, exit"

const helpLoggedIn = `Reminders:   add, list, done <n>, edit <n>, rm <n>
Saved items: note, link, save-file <path>, items, fav <n>, rm-item <n>
Session:     status, logout, exit`

// Run reads commands until EOF or "exit". Command handlers report their own
// errors; the loop itself only does I/O and dispatch.
func (a *App) Run(ctx context.Context) {
	a.printf("lembretes (type 'help' for commands)\n")
	for {
		a.printf("%s> ", a.promptTag())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			a.printf("Bye!\n")
			return
		}
		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.printf("error: %v\n", err)
		}
		if a.core.ReauthRequired() && a.loggedIn() {
			a.printf("Your session needs re-authentication; run 'login' to keep saving.\n")
		}
	}
}

func (a *App) promptTag() string {
	if u := a.core.Gate().CurrentUser(); u != nil {
		return u.Email + " "
	}
	return ""
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch cmd {
	case "help":
		if a.loggedIn() {
			a.printf("%s\n", helpLoggedIn)
		} else {
			a.printf("%s\n", helpLoggedOut)
		}
		return nil
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "status":
		return a.status()
	}

	if !a.loggedIn() {
		a.printf("Sign in first ('login') or type 'help'.\n")
		return nil
	}

	switch cmd {
	case "logout":
		return a.logout(ctx)
	case "add":
		return a.addReminder(ctx)
	case "l", "list":
		return a.listReminders()
	case "done":
		return a.doneReminder(arg)
	case "edit":
		return a.editReminder(arg)
	case "rm":
		return a.removeReminder(arg)
	case "note":
		return a.addNote(ctx)
	case "link":
		return a.addLink(ctx)
	case "save-file":
		if arg == "" {
			a.printf("Usage: save-file <path>\n")
			return nil
		}
		return a.saveFile(ctx, arg)
	case "items":
		return a.listItems()
	case "fav":
		return a.favoriteItem(arg)
	case "rm-item":
		return a.removeItem(arg)
	default:
		a.printf("Unknown command: %s\n", cmd)
		return nil
	}
}
