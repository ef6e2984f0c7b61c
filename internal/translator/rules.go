package translator

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/chefport/cli/internal/ansible"
	"github.com/chefport/cli/internal/chef"
	"github.com/chefport/cli/internal/template"
)

// converted groups what one resource translates to. Most resources yield a
// single task; notifications add handlers, apt keys add a companion task.
type converted struct {
	tasks    []ansible.Task
	handlers []ansible.Task
}

func convertResource(res chef.Resource) converted {
	var c converted

	switch res.Type {
	case "package":
		c.tasks = append(c.tasks, convertPackage(res))
	case "service":
		c.tasks = append(c.tasks, convertService(res))
	case "template":
		c.tasks = append(c.tasks, convertTemplate(res))
	case "cookbook_file":
		c.tasks = append(c.tasks, convertCookbookFile(res))
	case "file":
		c.tasks = append(c.tasks, convertFile(res))
	case "directory":
		c.tasks = append(c.tasks, convertDirectory(res))
	case "execute":
		c.tasks = append(c.tasks, convertCommand(res, "ansible.builtin.command"))
	case "bash":
		c.tasks = append(c.tasks, convertCommand(res, "ansible.builtin.shell"))
	case "cron":
		c.tasks = append(c.tasks, convertCron(res))
	case "user":
		c.tasks = append(c.tasks, convertUser(res))
	case "group":
		c.tasks = append(c.tasks, convertGroup(res))
	case "mount":
		c.tasks = append(c.tasks, convertMount(res))
	case "remote_file":
		c.tasks = append(c.tasks, convertRemoteFile(res))
	case "git":
		c.tasks = append(c.tasks, convertGit(res))
	case "apt_repository":
		c.tasks = append(c.tasks, convertAptRepository(res)...)
	case "yum_repository":
		c.tasks = append(c.tasks, convertYumRepository(res))
	case "apt_update":
		c.tasks = append(c.tasks, ansible.Task{
			Name:   "Update apt cache",
			Module: "ansible.builtin.apt",
			Params: map[string]interface{}{"update_cache": true},
		})
	default:
		return c
	}

	for i := range c.tasks {
		applyGuards(&c.tasks[i], res)
	}
	if raw, ok := res.Properties["notifies"]; ok {
		if name, handler, ok := parseNotify(raw); ok {
			last := &c.tasks[len(c.tasks)-1]
			last.Notify = append(last.Notify, name)
			c.handlers = append(c.handlers, handler)
		}
	}
	return c
}

func convertPackage(res chef.Resource) ansible.Task {
	name := propOr(res, "package_name", res.Name)
	state, verb := "present", "Install"
	switch firstAction(res) {
	case "remove", "purge":
		state, verb = "absent", "Remove"
	case "upgrade":
		state, verb = "latest", "Upgrade"
	}

	params := map[string]interface{}{"name": name, "state": state}
	copyProps(params, res, map[string]string{"version": "version"})

	return ansible.Task{Name: verb + " " + name, Module: "ansible.builtin.package", Params: params}
}

func convertService(res chef.Resource) ansible.Task {
	name := propOr(res, "service_name", res.Name)
	params := map[string]interface{}{"name": name}

	var state string
	var enabled *bool
	for _, a := range parseActions(res.Properties["action"]) {
		switch a {
		case "start":
			state = "started"
		case "stop":
			state = "stopped"
		case "restart":
			state = "restarted"
		case "reload":
			state = "reloaded"
		case "enable":
			enabled = boolPtr(true)
		case "disable":
			enabled = boolPtr(false)
		}
	}
	// Chef's default service action is :nothing; started is the useful reading.
	if state == "" && enabled == nil {
		state = "started"
	}

	var verbs []string
	if enabled != nil {
		params["enabled"] = *enabled
		if *enabled {
			verbs = append(verbs, "enable")
		} else {
			verbs = append(verbs, "disable")
		}
	}
	if state != "" {
		params["state"] = state
		verbs = append(verbs, stateVerbs[state])
	}

	return ansible.Task{
		Name:   capitalize(strings.Join(verbs, " and ")) + " " + name + " service",
		Module: "ansible.builtin.service",
		Params: params,
	}
}

func convertTemplate(res chef.Resource) ansible.Task {
	dest := propOr(res, "path", res.Name)
	src := propOr(res, "source", path.Base(dest)+".erb")
	src = strings.ReplaceAll(src, ".erb", ".j2")

	params := map[string]interface{}{"src": src, "dest": dest}
	copyProps(params, res, fileModeProps)

	return ansible.Task{Name: "Deploy " + dest, Module: "ansible.builtin.template", Params: params}
}

func convertCookbookFile(res chef.Resource) ansible.Task {
	dest := propOr(res, "path", res.Name)
	src := propOr(res, "source", path.Base(dest))

	params := map[string]interface{}{"src": src, "dest": dest}
	copyProps(params, res, fileModeProps)

	return ansible.Task{Name: "Copy " + dest, Module: "ansible.builtin.copy", Params: params}
}

func convertFile(res chef.Resource) ansible.Task {
	p := propOr(res, "path", res.Name)

	if content, ok := prop(res, "content"); ok {
		params := map[string]interface{}{"content": content, "dest": p}
		copyProps(params, res, fileModeProps)
		return ansible.Task{Name: "Write " + p, Module: "ansible.builtin.copy", Params: params}
	}

	state, verb := "touch", "Create file "
	if firstAction(res) == "delete" {
		state, verb = "absent", "Remove file "
	}
	params := map[string]interface{}{"path": p, "state": state}
	if state != "absent" {
		copyProps(params, res, fileModeProps)
	}
	return ansible.Task{Name: verb + p, Module: "ansible.builtin.file", Params: params}
}

func convertDirectory(res chef.Resource) ansible.Task {
	p := propOr(res, "path", res.Name)

	if firstAction(res) == "delete" {
		return ansible.Task{
			Name:   "Remove directory " + p,
			Module: "ansible.builtin.file",
			Params: map[string]interface{}{"path": p, "state": "absent"},
		}
	}

	params := map[string]interface{}{"path": p, "state": "directory"}
	copyProps(params, res, fileModeProps)
	if b, ok := boolProp(res, "recursive"); ok && b {
		params["recurse"] = true
	}
	return ansible.Task{Name: "Create directory " + p, Module: "ansible.builtin.file", Params: params}
}

func convertCommand(res chef.Resource, module string) ansible.Task {
	cmd := res.Name
	if raw, ok := res.Properties["command"]; ok {
		cmd = stripHeredoc(unquote(raw))
	} else if raw, ok := res.Properties["code"]; ok {
		cmd = stripHeredoc(unquote(raw))
	}

	params := map[string]interface{}{"cmd": cmd}
	copyProps(params, res, map[string]string{"creates": "creates", "cwd": "chdir"})

	return ansible.Task{Name: "Run " + res.Name, Module: module, Params: params}
}

func convertCron(res chef.Resource) ansible.Task {
	params := map[string]interface{}{"name": res.Name}
	copyProps(params, res, map[string]string{
		"command": "job",
		"minute":  "minute",
		"hour":    "hour",
		"day":     "day",
		"month":   "month",
		"weekday": "weekday",
		"user":    "user",
	})
	if firstAction(res) == "delete" {
		params["state"] = "absent"
	}
	return ansible.Task{Name: "Schedule cron job " + res.Name, Module: "ansible.builtin.cron", Params: params}
}

func convertUser(res chef.Resource) ansible.Task {
	name := propOr(res, "username", res.Name)
	params := map[string]interface{}{"name": name}
	copyProps(params, res, map[string]string{
		"uid":     "uid",
		"gid":     "group",
		"home":    "home",
		"shell":   "shell",
		"comment": "comment",
	})
	if b, ok := boolProp(res, "system"); ok {
		params["system"] = b
	}
	if b, ok := boolProp(res, "manage_home"); ok {
		params["create_home"] = b
	}

	verb := "Create user "
	if firstAction(res) == "remove" {
		params["state"] = "absent"
		verb = "Remove user "
	}
	return ansible.Task{Name: verb + name, Module: "ansible.builtin.user", Params: params}
}

func convertGroup(res chef.Resource) ansible.Task {
	name := propOr(res, "group_name", res.Name)
	params := map[string]interface{}{"name": name}
	copyProps(params, res, map[string]string{"gid": "gid"})
	if b, ok := boolProp(res, "system"); ok {
		params["system"] = b
	}

	verb := "Create group "
	if firstAction(res) == "remove" {
		params["state"] = "absent"
		verb = "Remove group "
	}
	return ansible.Task{Name: verb + name, Module: "ansible.builtin.group", Params: params}
}

func convertMount(res chef.Resource) ansible.Task {
	p := propOr(res, "mount_point", res.Name)
	params := map[string]interface{}{"path": p}
	copyProps(params, res, map[string]string{"device": "src", "fstype": "fstype"})
	if raw, ok := res.Properties["options"]; ok {
		params["opts"] = strings.Join(parseActions(raw), ",")
	}

	state, verb := "mounted", "Mount "
	switch firstAction(res) {
	case "enable":
		state = "present"
	case "umount", "unmount":
		state, verb = "unmounted", "Unmount "
	case "disable":
		state, verb = "absent", "Unmount "
	case "remount":
		state = "remounted"
	}
	params["state"] = state

	return ansible.Task{Name: verb + p, Module: "ansible.posix.mount", Params: params}
}

func convertRemoteFile(res chef.Resource) ansible.Task {
	dest := propOr(res, "path", res.Name)
	params := map[string]interface{}{"dest": dest}
	copyProps(params, res, map[string]string{"source": "url", "checksum": "checksum"})
	copyProps(params, res, fileModeProps)

	return ansible.Task{Name: "Download " + dest, Module: "ansible.builtin.get_url", Params: params}
}

func convertGit(res chef.Resource) ansible.Task {
	dest := propOr(res, "destination", res.Name)
	params := map[string]interface{}{"dest": dest}
	copyProps(params, res, map[string]string{
		"repository": "repo",
		"revision":   "version",
		"depth":      "depth",
	})

	return ansible.Task{Name: "Clone " + dest, Module: "ansible.builtin.git", Params: params}
}

// convertAptRepository composes the one-line sources.list entry Ansible
// expects from Chef's split uri/distribution/components properties. A key
// property becomes a companion apt_key task ordered before the repository.
func convertAptRepository(res chef.Resource) []ansible.Task {
	repo := res.Name
	if uri, ok := prop(res, "uri"); ok {
		parts := []string{"deb", uri}
		if dist, ok := prop(res, "distribution"); ok {
			parts = append(parts, dist)
		}
		if raw, ok := res.Properties["components"]; ok {
			parts = append(parts, parseActions(raw)...)
		}
		repo = strings.Join(parts, " ")
	}

	params := map[string]interface{}{"repo": repo}
	copyProps(params, res, map[string]string{"filename": "filename"})
	if firstAction(res) == "remove" {
		params["state"] = "absent"
	}

	tasks := []ansible.Task{}
	if key, ok := prop(res, "key"); ok {
		tasks = append(tasks, ansible.Task{
			Name:   "Add apt key for " + res.Name,
			Module: "ansible.builtin.apt_key",
			Params: map[string]interface{}{"url": key},
		})
	}
	return append(tasks, ansible.Task{
		Name:   "Add apt repository " + res.Name,
		Module: "ansible.builtin.apt_repository",
		Params: params,
	})
}

func convertYumRepository(res chef.Resource) ansible.Task {
	params := map[string]interface{}{"name": res.Name}
	copyProps(params, res, map[string]string{
		"description": "description",
		"baseurl":     "baseurl",
		"gpgkey":      "gpgkey",
	})
	if b, ok := boolProp(res, "enabled"); ok {
		params["enabled"] = b
	}
	if b, ok := boolProp(res, "gpgcheck"); ok {
		params["gpgcheck"] = b
	}
	if firstAction(res) == "remove" {
		params["state"] = "absent"
	}

	return ansible.Task{Name: "Add yum repository " + res.Name, Module: "ansible.builtin.yum_repository", Params: params}
}

// fileModeProps are the ownership properties shared by file-shaped resources.
var fileModeProps = map[string]string{"owner": "owner", "group": "group", "mode": "mode"}

// copyProps moves unquoted property values into params under their Ansible
// names. Absent properties are skipped.
func copyProps(params map[string]interface{}, res chef.Resource, names map[string]string) {
	for from, to := range names {
		if v, ok := prop(res, from); ok {
			params[to] = v
		}
	}
}

func prop(res chef.Resource, name string) (string, bool) {
	raw, ok := res.Properties[name]
	if !ok {
		return "", false
	}
	return unquote(raw), true
}

func propOr(res chef.Resource, name, fallback string) string {
	if v, ok := prop(res, name); ok {
		return v
	}
	return fallback
}

func boolProp(res chef.Resource, name string) (bool, bool) {
	v, ok := prop(res, name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// unquote strips one layer of matching quotes or a leading symbol colon.
// Anything else comes back untouched.
func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') || (raw[0] == '"' && raw[len(raw)-1] == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	if strings.HasPrefix(raw, ":") {
		return strings.TrimPrefix(raw, ":")
	}
	return raw
}

// parseActions splits an action value into plain words: `:install` yields
// ["install"], `[:enable, :start]` yields ["enable", "start"].
func parseActions(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")

	var actions []string
	for _, part := range strings.Split(raw, ",") {
		if a := unquote(strings.TrimSpace(part)); a != "" {
			actions = append(actions, a)
		}
	}
	return actions
}

func firstAction(res chef.Resource) string {
	actions := parseActions(res.Properties["action"])
	if len(actions) == 0 {
		return ""
	}
	return actions[0]
}

// stripHeredoc unwraps a `<<-EOH ... EOH` value to its body lines.
func stripHeredoc(raw string) string {
	lines := strings.Split(raw, "\n")
	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(first, "<<") || len(lines) < 2 {
		return raw
	}

	tag := strings.TrimLeft(strings.TrimPrefix(first, "<<"), "-~")
	tag = strings.Trim(tag, `'"`)
	body := lines[1:]
	if strings.TrimSpace(body[len(body)-1]) == tag {
		body = body[:len(body)-1]
	}

	out := make([]string, 0, len(body))
	for _, line := range body {
		out = append(out, strings.TrimSpace(line))
	}
	return strings.Join(out, "\n")
}

var handlerStates = map[string]string{
	"restart": "restarted",
	"reload":  "reloaded",
	"start":   "started",
	"stop":    "stopped",
}

var stateVerbs = map[string]string{
	"started":   "start",
	"stopped":   "stop",
	"restarted": "restart",
	"reloaded":  "reload",
}

// notifyPattern matches `:action, 'type[name]'` with an optional timing tail.
var notifyPattern = regexp.MustCompile(`^:(\w+)\s*,\s*['"](\w+)\[([^\]]+)\]['"]`)

// parseNotify turns a notifies value into a handler name plus the handler
// task itself. Service targets become real service handlers; anything else
// gets a debug note since the target's command is not knowable here.
func parseNotify(raw string) (string, ansible.Task, bool) {
	m := notifyPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", ansible.Task{}, false
	}
	action, targetType, targetName := m[1], m[2], m[3]
	name := action + " " + targetName

	if targetType == "service" {
		state, ok := handlerStates[action]
		if !ok {
			state = "restarted"
		}
		return name, ansible.Task{
			Name:   name,
			Module: "ansible.builtin.service",
			Params: map[string]interface{}{"name": targetName, "state": state},
		}, true
	}

	return name, ansible.Task{
		Name:   name,
		Module: "ansible.builtin.debug",
		Params: map[string]interface{}{
			"msg": fmt.Sprintf("Chef notification targets %s[%s]; recreate this handler by hand", targetType, targetName),
		},
	}, true
}

// platformFamilies maps Chef platform_family names to ansible_os_family
// values where capitalization alone is not enough.
var platformFamilies = map[string]string{
	"rhel":   "RedHat",
	"debian": "Debian",
	"fedora": "Fedora",
	"suse":   "Suse",
	"arch":   "Archlinux",
}

// platformNames maps Chef platform names to ansible_distribution values.
var platformNames = map[string]string{
	"centos":   "CentOS",
	"redhat":   "RedHat",
	"freebsd":  "FreeBSD",
	"opensuse": "openSUSE",
}

var (
	platformFamilyPattern = regexp.MustCompile(`^platform_family\?\(\s*['"](\w+)['"]\s*\)$`)
	platformPattern       = regexp.MustCompile(`^platform\?\(\s*['"](\w+)['"]\s*\)$`)
)

// translateGuard converts a Chef guard expression to a Jinja condition.
// Shell guards (plain quoted commands) and Ruby beyond platform checks and
// attribute references are not translatable; the caller keeps the raw text
// visible instead.
func translateGuard(raw string) (string, bool) {
	expr := strings.TrimSpace(raw)
	if strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	} else {
		// A bare quoted value is a shell guard, not Ruby.
		return "", false
	}

	if m := platformFamilyPattern.FindStringSubmatch(expr); m != nil {
		return "ansible_os_family == '" + platformName(m[1], platformFamilies) + "'", true
	}
	if m := platformPattern.FindStringSubmatch(expr); m != nil {
		return "ansible_distribution == '" + platformName(m[1], platformNames) + "'", true
	}
	if strings.Contains(expr, "node[") || strings.Contains(expr, "node.") {
		return template.Transpile(expr), true
	}
	return "", false
}

func platformName(name string, table map[string]string) string {
	if mapped, ok := table[strings.ToLower(name)]; ok {
		return mapped
	}
	return capitalize(strings.ToLower(name))
}

func applyGuards(t *ansible.Task, res chef.Resource) {
	if raw, ok := res.Properties["only_if"]; ok {
		if expr, ok := translateGuard(raw); ok {
			t.When = joinWhen(t.When, expr)
		} else {
			setVar(t, "chef_only_if", strings.TrimSpace(raw))
		}
	}
	if raw, ok := res.Properties["not_if"]; ok {
		if expr, ok := translateGuard(raw); ok {
			t.When = joinWhen(t.When, "not ("+expr+")")
		} else {
			setVar(t, "chef_not_if", strings.TrimSpace(raw))
		}
	}
}

func joinWhen(existing, expr string) string {
	if existing == "" {
		return expr
	}
	return existing + " and " + expr
}

func setVar(t *ansible.Task, key, value string) {
	if t.Vars == nil {
		t.Vars = make(map[string]interface{})
	}
	t.Vars[key] = value
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func boolPtr(b bool) *bool {
	return &b
}
