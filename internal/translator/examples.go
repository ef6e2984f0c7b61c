package translator

// promptExample is one Chef-to-Ansible pair shown to a generative translator.
type promptExample struct {
	Chef    string
	Ansible string
}

// conversionExamples cover the idioms a generative translator gets wrong
// without guidance: state names, handlers, guards, multi-action services
// and recursive directories.
var conversionExamples = []promptExample{
	{
		Chef: `package 'nginx' do
  action :install
end`,
		Ansible: `- name: Install nginx
  ansible.builtin.package:
    name: nginx
    state: present`,
	},
	{
		Chef: `template '/etc/nginx/nginx.conf' do
  source 'nginx.conf.erb'
  owner 'root'
  group 'root'
  mode '0644'
  notifies :reload, 'service[nginx]', :delayed
end`,
		Ansible: `- name: Deploy /etc/nginx/nginx.conf
  ansible.builtin.template:
    src: nginx.conf.j2
    dest: /etc/nginx/nginx.conf
    owner: root
    group: root
    mode: '0644'
  notify:
    - reload nginx`,
	},
	{
		Chef: `package 'apache2' do
  action :install
  only_if { platform_family?('debian') }
end`,
		Ansible: `- name: Install apache2
  ansible.builtin.package:
    name: apache2
    state: present
  when: ansible_os_family == 'Debian'`,
	},
	{
		Chef: `service 'nginx' do
  action [:enable, :start]
end`,
		Ansible: `- name: Enable and start nginx service
  ansible.builtin.service:
    name: nginx
    state: started
    enabled: true`,
	},
	{
		Chef: `directory '/var/www/html' do
  owner 'www-data'
  group 'www-data'
  mode '0755'
  recursive true
end`,
		Ansible: `- name: Create directory /var/www/html
  ansible.builtin.file:
    path: /var/www/html
    state: directory
    owner: www-data
    group: www-data
    mode: '0755'
    recurse: true`,
	},
}
