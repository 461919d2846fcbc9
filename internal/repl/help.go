package repl

const helpMarkdown = `# Commands

## Reminders
| Command | Description |
|---|---|
| ` + "`/add [title]`" + ` | Create a reminder, asking for each field |
| ` + "`/list [pending\\|completed\\|all]`" + ` | List reminders (default: pending) |
| ` + "`/today`" + ` | Overdue reminders and everything due today |
| ` + "`/show <id>`" + ` | Show one reminder in full |
| ` + "`/edit <id>`" + ` | Change fields; a new due time re-arms both notifications |
| ` + "`/done <id>`" + ` | Mark completed; it will not fire again |
| ` + "`/delete <id>`" + ` | Delete permanently |
| ` + "`/log [n]`" + ` | Most recently created reminders (default 50) |

## Scheduler
| Command | Description |
|---|---|
| ` + "`/check`" + ` | Run one check now and report what fired |
| ` + "`/status`" + ` | Scheduler state and timing |

## General
| Command | Description |
|---|---|
| ` + "`/help`" + ` | Show this help |
| ` + "`/quit`" + ` | Exit (Ctrl+D also works) |

Due times use the format **YYYY-MM-DD HH:MM**.
`
