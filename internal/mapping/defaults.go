package mapping

// defaultEntries is the built-in mapping table covering common Chef custom
// resources from community cookbooks.
func defaultEntries() map[string]Entry {
	return map[string]Entry{
		"mysql_database": {
			AnsibleModule: "community.mysql.mysql_db",
			PropertyMapping: map[string]string{
				"database_name": "name",
				"connection":    "login_host",
				"user":          "login_user",
				"password":      "login_password",
			},
		},
		"postgresql_database": {
			AnsibleModule: "community.postgresql.postgresql_db",
			PropertyMapping: map[string]string{
				"database_name": "name",
				"connection":    "login_host",
				"user":          "login_user",
				"password":      "login_password",
			},
		},
		"apache2_site": {
			AnsibleModule: "community.general.apache2_module",
			PropertyMapping: map[string]string{
				"site_name": "name",
				"enable":    "state",
			},
			ValueMapping: map[string]map[string]string{
				"enable": {"true": "present", "false": "absent"},
			},
		},
		"nginx_site": {
			AnsibleModule: "community.general.nginx_site",
			PropertyMapping: map[string]string{
				"site_name": "name",
				"enable":    "state",
			},
			ValueMapping: map[string]map[string]string{
				"enable": {"true": "present", "false": "absent"},
			},
		},
		"cron_job": {
			AnsibleModule: "ansible.builtin.cron",
			PropertyMapping: map[string]string{
				"name":    "name",
				"command": "job",
				"minute":  "minute",
				"hour":    "hour",
				"day":     "day",
				"month":   "month",
				"weekday": "weekday",
				"user":    "user",
			},
		},
		"systemd_unit": {
			AnsibleModule: "ansible.builtin.systemd",
			PropertyMapping: map[string]string{
				"unit_name": "name",
				"action":    "state",
			},
			ValueMapping: map[string]map[string]string{
				"action": {
					"start":   "started",
					"stop":    "stopped",
					"enable":  "enabled",
					"disable": "disabled",
				},
			},
		},
	}
}
